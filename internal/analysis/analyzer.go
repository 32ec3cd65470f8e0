package analysis

import (
	"fmt"
	"sync"

	"github.com/morphokit/morphokit/internal/morphology"
	"go.uber.org/zap"
)

// Options controls one analysis invocation. There is no process-wide state;
// every call carries its own options.
type Options struct {
	// Kernels lists the kernel names to run. Empty means every registered
	// kernel.
	Kernels []string

	// MaximumBranchingOrder caps the distribution histograms. Zero or
	// negative means infer the maximum per arbor from the data.
	MaximumBranchingOrder int

	// Parallel analyzes independent arbors on separate goroutines. The
	// skeleton is read-only during analysis, so arbors are independent;
	// results merge only at the morphology aggregation stage.
	Parallel bool
}

// Analyzer runs registered kernels over a morphology and aggregates the
// results.
type Analyzer struct {
	registry *Registry
	logger   *zap.SugaredLogger
}

// NewAnalyzer creates an analyzer with the built-in kernel registry.
func NewAnalyzer(logger *zap.SugaredLogger) *Analyzer {
	return &Analyzer{
		registry: NewRegistry(),
		logger:   logger,
	}
}

// Registry exposes the kernel registry so callers can add custom kernels.
func (a *Analyzer) Registry() *Registry {
	return a.registry
}

// Analyze runs the requested kernels over every arbor of the morphology and
// combines the per-arbor results into morphology-level scalars. The tree is
// never mutated. Only structural corruption is fatal; degenerate sections
// and absent arbor categories are handled by the kernels and the aggregation
// identities.
func (a *Analyzer) Analyze(m *morphology.Morphology, opts Options) (*MorphologyAnalysisResult, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("malformed morphology %q: %w", m.Label, err)
	}

	kernels, err := a.resolveKernels(opts.Kernels)
	if err != nil {
		return nil, err
	}

	arbors := m.Arbors()
	a.logger.Debugf("analyzing morphology %q: %d arbors, %d kernels",
		m.Label, len(arbors), len(kernels))

	// Per-arbor result slots, one row per arbor, one column per kernel.
	// Each goroutine writes only its own row.
	slots := make([][]ArborResult, len(arbors))

	analyzeArbor := func(i int) {
		arbor := arbors[i]
		slots[i] = make([]ArborResult, len(kernels))
		for k, kernel := range kernels {
			var data []AnalysisData
			arbor.Walk(func(section *morphology.Section) {
				data = append(data, kernel.Apply(m, section)...)
			})
			slots[i][k] = compileArborResult(kernel, arbor.Label, data, opts.MaximumBranchingOrder)
		}
	}

	if opts.Parallel {
		var wg sync.WaitGroup
		for i := range arbors {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				analyzeArbor(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range arbors {
			analyzeArbor(i)
		}
	}

	result := &MorphologyAnalysisResult{
		Label:   m.Label,
		Results: make([]AnalysisResult, len(kernels)),
	}

	for k, kernel := range kernels {
		res := AnalysisResult{
			Kernel:      kernel.Name,
			Description: kernel.Description,
			Format:      kernel.Format,
			Aggregation: kernel.Aggregation,
		}

		all := make([]ArborResult, 0, len(arbors))
		for i, arbor := range arbors {
			arborResult := slots[i][k]
			all = append(all, arborResult)

			switch {
			case arbor == m.ApicalDendrite:
				apical := arborResult
				res.Apical = &apical
			case arbor.Type == morphology.TypeAxon:
				res.Axon = append(res.Axon, arborResult)
			default:
				res.Basal = append(res.Basal, arborResult)
			}
		}

		res.Morphology = combineArborScalars(kernel.Aggregation, all)
		result.Results[k] = res
	}

	return result, nil
}

func (a *Analyzer) resolveKernels(names []string) ([]Kernel, error) {
	if len(names) == 0 {
		names = a.registry.Names()
	}
	kernels := make([]Kernel, 0, len(names))
	for _, name := range names {
		kernel, err := a.registry.Get(name)
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, kernel)
	}
	return kernels, nil
}
