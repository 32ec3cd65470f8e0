// Package morphology defines the engine-independent neuronal skeleton model:
// samples, sections, arbors and the morphology that owns them. The tree is
// built once by a reader and treated as read-only by every analysis pass.
package morphology

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Sample is a single 3D point with a radius along a neurite.
type Sample struct {
	Point  r3.Vec
	Radius float64
}

// Distance returns the Euclidean distance to another sample.
func (s Sample) Distance(o Sample) float64 {
	return r3.Norm(r3.Sub(o.Point, s.Point))
}

// Soma holds the cell body position and mean radius. Analysis uses the
// centroid as the origin for radial distances.
type Soma struct {
	Centroid   r3.Vec
	MeanRadius float64
}

// Morphology owns the soma and the reconstructed arbors of one neuron:
// zero or one apical dendrite, zero or more basal dendrites and zero or
// more axons.
type Morphology struct {
	Label          string
	Soma           Soma
	ApicalDendrite *Arbor
	BasalDendrites []*Arbor
	Axons          []*Arbor
}

// Arbors returns every arbor of the morphology in a stable order:
// apical dendrite first, then basal dendrites, then axons. Absent
// categories are simply skipped.
func (m *Morphology) Arbors() []*Arbor {
	arbors := make([]*Arbor, 0, 1+len(m.BasalDendrites)+len(m.Axons))
	if m.ApicalDendrite != nil {
		arbors = append(arbors, m.ApicalDendrite)
	}
	arbors = append(arbors, m.BasalDendrites...)
	arbors = append(arbors, m.Axons...)
	return arbors
}

// RadialDistance returns the distance from the soma centroid to a sample.
func (m *Morphology) RadialDistance(s Sample) float64 {
	return r3.Norm(r3.Sub(s.Point, m.Soma.Centroid))
}

// Validate checks the structural integrity of every arbor. See
// Arbor.Validate for the conditions that are treated as fatal.
func (m *Morphology) Validate() error {
	for _, arbor := range m.Arbors() {
		if err := arbor.Validate(); err != nil {
			return err
		}
	}
	return nil
}
