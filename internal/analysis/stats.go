package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/morphokit/morphokit/internal/morphology"
	"gonum.org/v1/gonum/stat"
)

// SectionStats summarizes one section in a single pass over its samples and
// segments. Computed on demand, never stored with the skeleton.
type SectionStats struct {
	SampleCount  int     `json:"sampleCount"`
	SegmentCount int     `json:"segmentCount"`
	Length       float64 `json:"length"`
	Volume       float64 `json:"volume"`
	SurfaceArea  float64 `json:"surfaceArea"`

	MinSegmentLength float64 `json:"minSegmentLength"`
	MaxSegmentLength float64 `json:"maxSegmentLength"`
	MinRadius        float64 `json:"minRadius"`
	MaxRadius        float64 `json:"maxRadius"`
	SumRadius        float64 `json:"sumRadius"`
}

// ComputeSectionStats walks the section's samples and segments once.
// Degenerate sections (fewer than two samples) produce zero-valued length,
// volume and area and a zero segment count.
func ComputeSectionStats(section *morphology.Section) SectionStats {
	s := SectionStats{SampleCount: len(section.Samples)}

	for i, sample := range section.Samples {
		if i == 0 || sample.Radius < s.MinRadius {
			s.MinRadius = sample.Radius
		}
		if i == 0 || sample.Radius > s.MaxRadius {
			s.MaxRadius = sample.Radius
		}
		s.SumRadius += sample.Radius
	}

	for i := 0; i < len(section.Samples)-1; i++ {
		length := SegmentLength(section.Samples[i], section.Samples[i+1])
		if i == 0 || length < s.MinSegmentLength {
			s.MinSegmentLength = length
		}
		if i == 0 || length > s.MaxSegmentLength {
			s.MaxSegmentLength = length
		}
		s.Length += length
		s.Volume += SegmentVolume(section.Samples[i], section.Samples[i+1])
		s.SurfaceArea += SegmentSurfaceArea(section.Samples[i], section.Samples[i+1])
		s.SegmentCount++
	}

	return s
}

// AverageSegmentLength returns the mean segment length. The second return is
// false for a degenerate section with no segments.
func (s SectionStats) AverageSegmentLength() (float64, bool) {
	if s.SegmentCount == 0 {
		return 0, false
	}
	return s.Length / float64(s.SegmentCount), true
}

// AverageRadius returns the mean sample radius, or false if the section has
// no samples.
func (s SectionStats) AverageRadius() (float64, bool) {
	if s.SampleCount == 0 {
		return 0, false
	}
	return s.SumRadius / float64(s.SampleCount), true
}

// ArborStats summarizes one arbor: totals, extrema and the shape of its
// section-length distribution.
type ArborStats struct {
	SectionCount int `json:"sectionCount"`
	SampleCount  int `json:"sampleCount"`
	SegmentCount int `json:"segmentCount"`

	TotalLength      float64 `json:"totalLength"`
	TotalVolume      float64 `json:"totalVolume"`
	TotalSurfaceArea float64 `json:"totalSurfaceArea"`

	MinSectionLength float64 `json:"minSectionLength"`
	MaxSectionLength float64 `json:"maxSectionLength"`
	MinRadius        float64 `json:"minRadius"`
	MaxRadius        float64 `json:"maxRadius"`
	SumRadius        float64 `json:"sumRadius"`

	MaxBranchingOrder int `json:"maxBranchingOrder"`

	// Section-length distribution shape
	MeanSectionLength   float64 `json:"meanSectionLength"`
	StdDevSectionLength float64 `json:"stdDevSectionLength"`
	MedianSectionLength float64 `json:"medianSectionLength"`
}

// ComputeArborStats folds per-section stats over one depth-first walk of the
// arbor.
func ComputeArborStats(arbor *morphology.Arbor) ArborStats {
	a := ArborStats{}
	var sectionLengths []float64

	arbor.Walk(func(section *morphology.Section) {
		s := ComputeSectionStats(section)

		if a.SectionCount == 0 || s.Length < a.MinSectionLength {
			a.MinSectionLength = s.Length
		}
		if a.SectionCount == 0 || s.Length > a.MaxSectionLength {
			a.MaxSectionLength = s.Length
		}
		if s.SampleCount > 0 {
			if a.SampleCount == 0 || s.MinRadius < a.MinRadius {
				a.MinRadius = s.MinRadius
			}
			if a.SampleCount == 0 || s.MaxRadius > a.MaxRadius {
				a.MaxRadius = s.MaxRadius
			}
		}
		if section.BranchingOrder > a.MaxBranchingOrder {
			a.MaxBranchingOrder = section.BranchingOrder
		}

		a.SectionCount++
		a.SampleCount += s.SampleCount
		a.SegmentCount += s.SegmentCount
		a.TotalLength += s.Length
		a.TotalVolume += s.Volume
		a.TotalSurfaceArea += s.SurfaceArea
		a.SumRadius += s.SumRadius

		sectionLengths = append(sectionLengths, s.Length)
	})

	if len(sectionLengths) > 0 {
		a.MeanSectionLength, a.StdDevSectionLength = stat.MeanStdDev(sectionLengths, nil)
		if math.IsNaN(a.StdDevSectionLength) {
			// MeanStdDev uses the sample variance, undefined for n=1
			a.StdDevSectionLength = 0
		}
		if median, err := stats.Median(sectionLengths); err == nil {
			a.MedianSectionLength = median
		}
	}

	return a
}

// AverageSectionLength returns the mean section length over the arbor, or
// false for an empty arbor.
func (a ArborStats) AverageSectionLength() (float64, bool) {
	if a.SectionCount == 0 {
		return 0, false
	}
	return a.TotalLength / float64(a.SectionCount), true
}

// AverageRadius returns the mean sample radius over the arbor, or false for
// an arbor with no samples.
func (a ArborStats) AverageRadius() (float64, bool) {
	if a.SampleCount == 0 {
		return 0, false
	}
	return a.SumRadius / float64(a.SampleCount), true
}
