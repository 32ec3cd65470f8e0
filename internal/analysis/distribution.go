package analysis

// AnalysisData is the output of one kernel applied to one section or sample:
// a value tagged with where in the tree it was measured.
type AnalysisData struct {
	Value          float64 `json:"value"`
	BranchingOrder int     `json:"branchingOrder"`
	SectionIndex   int     `json:"sectionIndex"`
	RadialDistance float64 `json:"radialDistance"`
}

// Distribution is one bucket of a per-branching-order histogram.
type Distribution struct {
	BranchingOrder int     `json:"branchingOrder"`
	Value          float64 `json:"value"`
}

// AddDistributions compiles raw analysis data into a per-branching-order
// histogram, summing entries that share an order. Orders are 1-based; every
// order from 1 to the maximum gets a bucket, with an implicit zero where no
// data was observed. maximumBranchingOrder <= 0 means infer it from the data.
// Orders beyond the observed/declared maximum are never invented. An empty
// input yields nil: nothing to plot, not an error.
func AddDistributions(data []AnalysisData, maximumBranchingOrder int) []Distribution {
	if len(data) == 0 {
		return nil
	}

	maxOrder := maximumBranchingOrder
	if maxOrder <= 0 {
		for _, d := range data {
			if d.BranchingOrder > maxOrder {
				maxOrder = d.BranchingOrder
			}
		}
	}
	if maxOrder <= 0 {
		return nil
	}

	// Accumulator indexed by order - 1, pre-filled with zeros.
	sums := make([]float64, maxOrder)
	for _, d := range data {
		if d.BranchingOrder < 1 || d.BranchingOrder > maxOrder {
			continue
		}
		sums[d.BranchingOrder-1] += d.Value
	}

	compiled := make([]Distribution, maxOrder)
	for i := range sums {
		compiled[i] = Distribution{BranchingOrder: i + 1, Value: sums[i]}
	}
	return compiled
}

// AverageDistributions compiles raw analysis data into a per-branching-order
// histogram of mean values. Orders with no observed data keep a zero bucket.
// Used for ratio statistics, where summing per order would weight sections by
// their sample counts.
func AverageDistributions(data []AnalysisData, maximumBranchingOrder int) []Distribution {
	if len(data) == 0 {
		return nil
	}

	maxOrder := maximumBranchingOrder
	if maxOrder <= 0 {
		for _, d := range data {
			if d.BranchingOrder > maxOrder {
				maxOrder = d.BranchingOrder
			}
		}
	}
	if maxOrder <= 0 {
		return nil
	}

	sums := make([]float64, maxOrder)
	counts := make([]int, maxOrder)
	for _, d := range data {
		if d.BranchingOrder < 1 || d.BranchingOrder > maxOrder {
			continue
		}
		sums[d.BranchingOrder-1] += d.Value
		counts[d.BranchingOrder-1]++
	}

	compiled := make([]Distribution, maxOrder)
	for i := range sums {
		value := 0.0
		if counts[i] > 0 {
			value = sums[i] / float64(counts[i])
		}
		compiled[i] = Distribution{BranchingOrder: i + 1, Value: value}
	}
	return compiled
}
