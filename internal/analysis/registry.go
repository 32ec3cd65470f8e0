package analysis

import (
	"fmt"
	"sort"

	"github.com/morphokit/morphokit/internal/morphology"
)

// Format declares the numeric format of a kernel's values, for consumers
// that render tables or histograms.
type Format string

const (
	FormatInt   Format = "int"
	FormatFloat Format = "float"
)

// Aggregation declares how per-arbor results of a kernel combine into a
// morphology-level scalar.
type Aggregation string

const (
	// AggregationSum adds arbor values; an absent arbor contributes 0.
	AggregationSum Aggregation = "sum"

	// AggregationMin takes the minimum over arbors that produced a value.
	AggregationMin Aggregation = "min"

	// AggregationMax takes the maximum over arbors that produced a value.
	AggregationMax Aggregation = "max"

	// AggregationRatio recomputes the mean from summed numerators and
	// denominators across arbors. Never an average of per-arbor averages,
	// which would bias toward short arbors.
	AggregationRatio Aggregation = "ratio"
)

// KernelFunc applies one measurement to one section, emitting one entry per
// section or one per sample. The uniform list return lets the engine treat
// both granularities identically.
type KernelFunc func(m *morphology.Morphology, section *morphology.Section) []AnalysisData

// Kernel describes one pluggable analysis: a name, what it measures, how its
// values format, and how arbor results aggregate.
type Kernel struct {
	Name        string
	Description string
	Format      Format
	Aggregation Aggregation
	Apply       KernelFunc
}

// Registry maps kernel names to their descriptors.
type Registry struct {
	kernels map[string]Kernel
}

// NewRegistry returns a registry pre-populated with the built-in kernels.
func NewRegistry() *Registry {
	r := &Registry{kernels: make(map[string]Kernel)}
	for _, k := range builtinKernels() {
		r.kernels[k.Name] = k
	}
	return r
}

// Register adds or replaces a kernel.
func (r *Registry) Register(k Kernel) {
	r.kernels[k.Name] = k
}

// Get looks up a kernel by name.
func (r *Registry) Get(name string) (Kernel, error) {
	k, ok := r.kernels[name]
	if !ok {
		return Kernel{}, fmt.Errorf("unknown analysis kernel %q", name)
	}
	return k, nil
}

// Names returns all registered kernel names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.kernels))
	for name := range r.kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// perSection wraps a section-scalar measurement as a KernelFunc emitting one
// entry per section, tagged with the order and the radial distance of the
// section's first sample.
func perSection(measure func(*morphology.Section) float64) KernelFunc {
	return func(m *morphology.Morphology, section *morphology.Section) []AnalysisData {
		radial := 0.0
		if len(section.Samples) > 0 {
			radial = m.RadialDistance(section.Samples[0])
		}
		return []AnalysisData{{
			Value:          measure(section),
			BranchingOrder: section.BranchingOrder,
			SectionIndex:   section.Index,
			RadialDistance: radial,
		}}
	}
}

// perSample wraps a sample-scalar measurement as a KernelFunc emitting one
// entry per sample of the section.
func perSample(measure func(morphology.Sample) float64) KernelFunc {
	return func(m *morphology.Morphology, section *morphology.Section) []AnalysisData {
		data := make([]AnalysisData, 0, len(section.Samples))
		for _, sample := range section.Samples {
			data = append(data, AnalysisData{
				Value:          measure(sample),
				BranchingOrder: section.BranchingOrder,
				SectionIndex:   section.Index,
				RadialDistance: m.RadialDistance(sample),
			})
		}
		return data
	}
}

func builtinKernels() []Kernel {
	return []Kernel{
		{
			Name:        "total-length",
			Description: "Total neurite length",
			Format:      FormatFloat,
			Aggregation: AggregationSum,
			Apply:       perSection(SectionLength),
		},
		{
			Name:        "total-volume",
			Description: "Total neurite volume",
			Format:      FormatFloat,
			Aggregation: AggregationSum,
			Apply:       perSection(SectionVolume),
		},
		{
			Name:        "total-surface-area",
			Description: "Total neurite surface area",
			Format:      FormatFloat,
			Aggregation: AggregationSum,
			Apply:       perSection(SectionSurfaceArea),
		},
		{
			Name:        "section-count",
			Description: "Number of sections",
			Format:      FormatInt,
			Aggregation: AggregationSum,
			Apply: perSection(func(*morphology.Section) float64 {
				return 1
			}),
		},
		{
			Name:        "sample-count",
			Description: "Number of samples",
			Format:      FormatInt,
			Aggregation: AggregationSum,
			Apply: perSection(func(section *morphology.Section) float64 {
				return float64(len(section.Samples))
			}),
		},
		{
			Name:        "segment-count",
			Description: "Number of segments",
			Format:      FormatInt,
			Aggregation: AggregationSum,
			Apply: perSection(func(section *morphology.Section) float64 {
				if len(section.Samples) < 2 {
					return 0
				}
				return float64(len(section.Samples) - 1)
			}),
		},
		{
			Name:        "max-branching-order",
			Description: "Maximum branching order",
			Format:      FormatInt,
			Aggregation: AggregationMax,
			Apply: perSection(func(section *morphology.Section) float64 {
				return float64(section.BranchingOrder)
			}),
		},
		{
			Name:        "max-sample-radius",
			Description: "Maximum sample radius",
			Format:      FormatFloat,
			Aggregation: AggregationMax,
			Apply: perSample(func(sample morphology.Sample) float64 {
				return sample.Radius
			}),
		},
		{
			Name:        "min-sample-radius",
			Description: "Minimum sample radius",
			Format:      FormatFloat,
			Aggregation: AggregationMin,
			Apply: perSample(func(sample morphology.Sample) float64 {
				return sample.Radius
			}),
		},
		{
			Name:        "average-sample-radius",
			Description: "Mean sample radius",
			Format:      FormatFloat,
			Aggregation: AggregationRatio,
			Apply: perSample(func(sample morphology.Sample) float64 {
				return sample.Radius
			}),
		},
	}
}
