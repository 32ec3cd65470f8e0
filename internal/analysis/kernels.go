// Package analysis implements the morphology analysis core: pure geometry
// kernels over segments and sections, per-branching-order distributions,
// per-arbor statistics and the morphology-level aggregation that combines
// apical, basal and axonal results into a single report.
package analysis

import (
	"math"

	"github.com/morphokit/morphokit/internal/morphology"
)

// SegmentLength returns the Euclidean distance between two consecutive
// samples.
func SegmentLength(s0, s1 morphology.Sample) float64 {
	return s0.Distance(s1)
}

// SegmentVolume returns the volume of the tapered cylinder (conical frustum)
// between two consecutive samples:
//
//	V = (1/3) * pi * h * (r0^2 + r0*r1 + r1^2)
//
// A zero-length segment contributes zero volume.
func SegmentVolume(s0, s1 morphology.Sample) float64 {
	h := s0.Distance(s1)
	if h == 0 {
		return 0.0
	}
	return (math.Pi / 3.0) * h * (s0.Radius*s0.Radius + s0.Radius*s1.Radius + s1.Radius*s1.Radius)
}

// SegmentSurfaceArea returns the lateral surface area of the frustum between
// two consecutive samples, using the slant height:
//
//	A = pi * (r0 + r1) * sqrt(h^2 + (r0 - r1)^2)
//
// A zero-length segment contributes zero area.
func SegmentSurfaceArea(s0, s1 morphology.Sample) float64 {
	h := s0.Distance(s1)
	if h == 0 {
		return 0.0
	}
	dr := s0.Radius - s1.Radius
	return math.Pi * (s0.Radius + s1.Radius) * math.Sqrt(h*h+dr*dr)
}

// SectionLength sums segment lengths over all adjacent sample pairs.
// A degenerate section (fewer than two samples) has zero length; this is
// not an error.
func SectionLength(section *morphology.Section) float64 {
	if len(section.Samples) < 2 {
		return 0.0
	}
	length := 0.0
	for i := 0; i < len(section.Samples)-1; i++ {
		length += SegmentLength(section.Samples[i], section.Samples[i+1])
	}
	return length
}

// SectionVolume sums segment volumes over all adjacent sample pairs.
// Degenerate sections have zero volume.
func SectionVolume(section *morphology.Section) float64 {
	if len(section.Samples) < 2 {
		return 0.0
	}
	volume := 0.0
	for i := 0; i < len(section.Samples)-1; i++ {
		volume += SegmentVolume(section.Samples[i], section.Samples[i+1])
	}
	return volume
}

// SectionSurfaceArea sums segment lateral surface areas over all adjacent
// sample pairs. Degenerate sections have zero area.
func SectionSurfaceArea(section *morphology.Section) float64 {
	if len(section.Samples) < 2 {
		return 0.0
	}
	area := 0.0
	for i := 0; i < len(section.Samples)-1; i++ {
		area += SegmentSurfaceArea(section.Samples[i], section.Samples[i+1])
	}
	return area
}
