package morphology

import (
	"errors"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func sampleAt(x, y, z, radius float64) Sample {
	return Sample{Point: r3.Vec{X: x, Y: y, Z: z}, Radius: radius}
}

// forkedArbor builds a root with two children, one of which has a child of
// its own.
func forkedArbor(t SectionType) *Arbor {
	arbor := NewArbor("test", t)
	root := arbor.AddSection(NoParent, []Sample{sampleAt(0, 0, 0, 1), sampleAt(0, 0, 1, 1)})
	left := arbor.AddSection(root, []Sample{sampleAt(0, 0, 1, 1), sampleAt(0, 1, 1, 1)})
	arbor.AddSection(root, []Sample{sampleAt(0, 0, 1, 1), sampleAt(1, 0, 1, 1)})
	arbor.AddSection(left, []Sample{sampleAt(0, 1, 1, 1), sampleAt(0, 2, 1, 1)})
	return arbor
}

func TestAddSectionBranchingOrder(t *testing.T) {
	arbor := forkedArbor(TypeBasalDendrite)

	expected := []int{1, 2, 2, 3}
	for i, want := range expected {
		if got := arbor.Sections[i].BranchingOrder; got != want {
			t.Errorf("section %d branching order = %d, want %d", i, got, want)
		}
	}
	if arbor.MaxBranchingOrder() != 3 {
		t.Errorf("MaxBranchingOrder = %d, want 3", arbor.MaxBranchingOrder())
	}
}

func TestWalkVisitsDepthFirst(t *testing.T) {
	arbor := forkedArbor(TypeAxon)

	var visited []int
	arbor.Walk(func(s *Section) {
		visited = append(visited, s.Index)
	})

	// Root, left subtree fully, then right child
	expected := []int{0, 1, 3, 2}
	if !reflect.DeepEqual(visited, expected) {
		t.Errorf("walk order = %v, want %v", visited, expected)
	}
}

func TestWalkDoesNotMutate(t *testing.T) {
	arbor := forkedArbor(TypeAxon)
	before := make([]Section, len(arbor.Sections))
	copy(before, arbor.Sections)

	arbor.Walk(func(*Section) {})

	for i := range before {
		if before[i].Index != arbor.Sections[i].Index ||
			before[i].ParentIndex != arbor.Sections[i].ParentIndex ||
			len(before[i].Samples) != len(arbor.Sections[i].Samples) {
			t.Fatalf("walk mutated section %d", i)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Arbor)
		wantErr error
	}{
		{
			name:    "well-formed tree",
			mutate:  func(*Arbor) {},
			wantErr: nil,
		},
		{
			name: "self-parent link",
			mutate: func(a *Arbor) {
				a.Sections[1].ParentIndex = 1
			},
			wantErr: ErrBadParentLink,
		},
		{
			name: "child index out of range",
			mutate: func(a *Arbor) {
				a.Sections[3].ChildrenIndices = []int{42}
			},
			wantErr: ErrIndexOutOfRange,
		},
		{
			name: "duplicate child entry revisits a section",
			mutate: func(a *Arbor) {
				a.Sections[0].ChildrenIndices = []int{1, 2, 1}
			},
			wantErr: ErrCyclicArbor,
		},
		{
			name: "loop detached from the root",
			mutate: func(a *Arbor) {
				// Sections 1 and 3 form a mutually consistent loop that
				// the root no longer reaches
				a.Sections[0].ChildrenIndices = []int{2}
				a.Sections[1].ParentIndex = 3
				a.Sections[3].ChildrenIndices = []int{1}
			},
			wantErr: ErrUnreachable,
		},
		{
			name: "root with a parent",
			mutate: func(a *Arbor) {
				a.Sections[0].ParentIndex = 2
			},
			wantErr: ErrNotRooted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arbor := forkedArbor(TypeBasalDendrite)
			tt.mutate(arbor)

			err := arbor.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmptyArbor(t *testing.T) {
	err := NewArbor("empty", TypeAxon).Validate()
	if !errors.Is(err, ErrEmptyArbor) {
		t.Errorf("Validate error = %v, want %v", err, ErrEmptyArbor)
	}
}

func TestMorphologyArborsOrderAndAbsence(t *testing.T) {
	apical := forkedArbor(TypeApicalDendrite)
	basal := forkedArbor(TypeBasalDendrite)
	axon := forkedArbor(TypeAxon)

	m := &Morphology{
		ApicalDendrite: apical,
		BasalDendrites: []*Arbor{basal},
		Axons:          []*Arbor{axon},
	}
	arbors := m.Arbors()
	if len(arbors) != 3 || arbors[0] != apical || arbors[1] != basal || arbors[2] != axon {
		t.Errorf("Arbors() order wrong: %v", arbors)
	}

	// Absent categories are skipped, not represented as nils
	m = &Morphology{BasalDendrites: []*Arbor{basal}}
	arbors = m.Arbors()
	if len(arbors) != 1 || arbors[0] != basal {
		t.Errorf("Arbors() with absent categories = %v, want just basal", arbors)
	}
}

func TestRadialDistance(t *testing.T) {
	m := &Morphology{Soma: Soma{Centroid: r3.Vec{X: 1, Y: 0, Z: 0}}}
	if got := m.RadialDistance(sampleAt(4, 4, 0, 1)); got != 5 {
		t.Errorf("RadialDistance = %v, want 5", got)
	}
}

func TestValidateDisconnectedSection(t *testing.T) {
	arbor := forkedArbor(TypeBasalDendrite)
	// Detach the leaf from its parent entirely
	arbor.Sections[1].ChildrenIndices = nil
	arbor.Sections[3].ParentIndex = NoParent

	err := arbor.Validate()
	if err == nil {
		t.Fatal("expected an error for a disconnected section")
	}
}
