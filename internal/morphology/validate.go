package morphology

import (
	"errors"
	"fmt"
)

// Structural corruption errors. These are the only conditions the analysis
// core treats as fatal; degenerate sections (fewer than two samples) are
// handled by the kernels themselves.
var (
	ErrEmptyArbor      = errors.New("arbor has no sections")
	ErrNotRooted       = errors.New("arbor's first section has a parent")
	ErrBadParentLink   = errors.New("parent/child links are inconsistent")
	ErrIndexOutOfRange = errors.New("section index out of range")
	ErrCyclicArbor     = errors.New("section graph contains a cycle")
	ErrUnreachable     = errors.New("section not reachable from the root")
)

// Validate verifies that the arbor is a well-formed tree: index 0 is the
// root, every child/parent link is mutual and in range, no section is
// visited twice (a cycle), and every section is reachable from the root.
func (a *Arbor) Validate() error {
	n := len(a.Sections)
	if n == 0 {
		return fmt.Errorf("arbor %q: %w", a.Label, ErrEmptyArbor)
	}
	if !a.Sections[0].IsRoot() {
		return fmt.Errorf("arbor %q: %w", a.Label, ErrNotRooted)
	}

	for i := range a.Sections {
		section := &a.Sections[i]
		if section.Index != i {
			return fmt.Errorf("arbor %q section %d: index records %d: %w",
				a.Label, i, section.Index, ErrBadParentLink)
		}
		if i > 0 {
			p := section.ParentIndex
			if p < 0 || p >= n {
				return fmt.Errorf("arbor %q section %d: parent %d: %w",
					a.Label, i, p, ErrIndexOutOfRange)
			}
			if !containsIndex(a.Sections[p].ChildrenIndices, i) {
				return fmt.Errorf("arbor %q section %d: parent %d does not list it as a child: %w",
					a.Label, i, p, ErrBadParentLink)
			}
		}
		for _, c := range section.ChildrenIndices {
			if c < 0 || c >= n {
				return fmt.Errorf("arbor %q section %d: child %d: %w",
					a.Label, i, c, ErrIndexOutOfRange)
			}
			if a.Sections[c].ParentIndex != i {
				return fmt.Errorf("arbor %q section %d: child %d claims parent %d: %w",
					a.Label, i, c, a.Sections[c].ParentIndex, ErrBadParentLink)
			}
		}
	}

	// Walk from the root counting visits; a revisit is a cycle and an
	// unvisited section is disconnected.
	visited := make([]bool, n)
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[idx] {
			return fmt.Errorf("arbor %q section %d: %w", a.Label, idx, ErrCyclicArbor)
		}
		visited[idx] = true

		stack = append(stack, a.Sections[idx].ChildrenIndices...)
	}
	for i, seen := range visited {
		if !seen {
			return fmt.Errorf("arbor %q section %d: %w", a.Label, i, ErrUnreachable)
		}
	}

	return nil
}

func containsIndex(indices []int, want int) bool {
	for _, idx := range indices {
		if idx == want {
			return true
		}
	}
	return false
}
