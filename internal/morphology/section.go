package morphology

// SectionType identifies which neurite category a section belongs to.
type SectionType string

const (
	// TypeAxon marks axonal sections
	TypeAxon SectionType = "axon"

	// TypeBasalDendrite marks basal dendrite sections
	TypeBasalDendrite SectionType = "basal-dendrite"

	// TypeApicalDendrite marks apical dendrite sections
	TypeApicalDendrite SectionType = "apical-dendrite"
)

// NoParent is the parent index of a root section.
const NoParent = -1

// Section is a maximal unbranched run of samples. Sections are stored in
// their arbor's arena and reference parent and children by index, so the
// tree carries no pointer cycles. Children attach at the section's last
// sample.
type Section struct {
	Index          int
	ParentIndex    int
	ChildrenIndices []int
	Samples        []Sample
	Type           SectionType
	BranchingOrder int
}

// IsRoot reports whether the section is the first-order section of its arbor.
func (s *Section) IsRoot() bool {
	return s.ParentIndex == NoParent
}

// LastSample returns the final sample of the section, where children connect.
// Returns a zero Sample for an empty section.
func (s *Section) LastSample() Sample {
	if len(s.Samples) == 0 {
		return Sample{}
	}
	return s.Samples[len(s.Samples)-1]
}

// Arbor is one dendrite or axon tree rooted at a first-order section.
// Sections live in a flat arena; index 0 is always the root.
type Arbor struct {
	Label    string
	Type     SectionType
	Sections []Section
}

// NewArbor creates an empty arbor of the given type.
func NewArbor(label string, t SectionType) *Arbor {
	return &Arbor{
		Label: label,
		Type:  t,
	}
}

// AddSection appends a section to the arena and links it to its parent.
// Pass NoParent for the root section. The branching order is derived from
// the parent (root sections are order 1). Returns the new section's index.
func (a *Arbor) AddSection(parentIndex int, samples []Sample) int {
	index := len(a.Sections)

	order := 1
	if parentIndex != NoParent {
		order = a.Sections[parentIndex].BranchingOrder + 1
		a.Sections[parentIndex].ChildrenIndices = append(a.Sections[parentIndex].ChildrenIndices, index)
	}

	a.Sections = append(a.Sections, Section{
		Index:          index,
		ParentIndex:    parentIndex,
		Samples:        samples,
		Type:           a.Type,
		BranchingOrder: order,
	})
	return index
}

// Root returns the first-order section, or nil for an empty arbor.
func (a *Arbor) Root() *Section {
	if len(a.Sections) == 0 {
		return nil
	}
	return &a.Sections[0]
}

// MaxBranchingOrder returns the deepest branching order present in the arbor,
// or 0 for an empty arbor.
func (a *Arbor) MaxBranchingOrder() int {
	max := 0
	for i := range a.Sections {
		if a.Sections[i].BranchingOrder > max {
			max = a.Sections[i].BranchingOrder
		}
	}
	return max
}

// Walk visits every section reachable from the root in depth-first,
// child-index order. The visitor must not mutate the arbor.
func (a *Arbor) Walk(visit func(*Section)) {
	if len(a.Sections) == 0 {
		return
	}

	// Iterative DFS; children are pushed in reverse so they pop in order.
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		section := &a.Sections[idx]
		visit(section)

		for i := len(section.ChildrenIndices) - 1; i >= 0; i-- {
			stack = append(stack, section.ChildrenIndices[i])
		}
	}
}
