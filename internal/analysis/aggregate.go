package analysis

// Scalar is a possibly-undefined aggregate value. Defined is false when the
// statistic had nothing to measure (an empty category under min/max, a ratio
// with a zero denominator); consumers must treat that as "no value", not 0.
type Scalar struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// ArborResult holds one kernel's output over one arbor: the raw analysis
// data, the per-branching-order distribution and the arbor-level scalar.
// Sum and Count carry the ratio parts so morphology-level averages can be
// recomputed from summed numerators and denominators.
type ArborResult struct {
	Label        string         `json:"label"`
	Data         []AnalysisData `json:"data,omitempty"`
	Distribution []Distribution `json:"distribution,omitempty"`
	Scalar       Scalar         `json:"scalar"`
	Sum          float64        `json:"sum"`
	Count        int            `json:"count"`
}

// AnalysisResult is one kernel's output over the whole morphology, keyed by
// arbor category, plus the combined morphology-level scalar.
type AnalysisResult struct {
	Kernel      string      `json:"kernel"`
	Description string      `json:"description"`
	Format      Format      `json:"format"`
	Aggregation Aggregation `json:"aggregation"`

	Apical *ArborResult  `json:"apical,omitempty"`
	Basal  []ArborResult `json:"basal,omitempty"`
	Axon   []ArborResult `json:"axon,omitempty"`

	Morphology Scalar `json:"morphology"`
}

// MorphologyAnalysisResult collects every requested kernel's result for one
// morphology.
type MorphologyAnalysisResult struct {
	Label   string           `json:"label"`
	Results []AnalysisResult `json:"results"`
}

// Result returns the result for a kernel by name, or nil if it was not part
// of the run.
func (m *MorphologyAnalysisResult) Result(kernel string) *AnalysisResult {
	for i := range m.Results {
		if m.Results[i].Kernel == kernel {
			return &m.Results[i]
		}
	}
	return nil
}

// compileArborResult rolls raw kernel output for one arbor into an
// ArborResult under the kernel's aggregation policy.
func compileArborResult(kernel Kernel, label string, data []AnalysisData, maximumBranchingOrder int) ArborResult {
	res := ArborResult{
		Label: label,
		Data:  data,
		Count: len(data),
	}
	for _, d := range data {
		res.Sum += d.Value
	}

	switch kernel.Aggregation {
	case AggregationSum:
		res.Scalar = Scalar{Value: res.Sum, Defined: true}
		res.Distribution = AddDistributions(data, maximumBranchingOrder)
	case AggregationMin:
		for i, d := range data {
			if i == 0 || d.Value < res.Scalar.Value {
				res.Scalar.Value = d.Value
			}
		}
		res.Scalar.Defined = len(data) > 0
		res.Distribution = AverageDistributions(data, maximumBranchingOrder)
	case AggregationMax:
		for i, d := range data {
			if i == 0 || d.Value > res.Scalar.Value {
				res.Scalar.Value = d.Value
			}
		}
		res.Scalar.Defined = len(data) > 0
		res.Distribution = AverageDistributions(data, maximumBranchingOrder)
	case AggregationRatio:
		if res.Count > 0 {
			res.Scalar = Scalar{Value: res.Sum / float64(res.Count), Defined: true}
		}
		res.Distribution = AverageDistributions(data, maximumBranchingOrder)
	}

	return res
}

// combineArborScalars merges per-arbor results into the morphology-level
// scalar. Absent or empty categories contribute the identity element: 0 for
// sums, exclusion for min/max, nothing for ratio parts.
func combineArborScalars(aggregation Aggregation, arborResults []ArborResult) Scalar {
	switch aggregation {
	case AggregationSum:
		total := 0.0
		for _, r := range arborResults {
			if r.Scalar.Defined {
				total += r.Scalar.Value
			}
		}
		return Scalar{Value: total, Defined: true}

	case AggregationMin:
		out := Scalar{}
		for _, r := range arborResults {
			if !r.Scalar.Defined {
				continue
			}
			if !out.Defined || r.Scalar.Value < out.Value {
				out = Scalar{Value: r.Scalar.Value, Defined: true}
			}
		}
		return out

	case AggregationMax:
		out := Scalar{}
		for _, r := range arborResults {
			if !r.Scalar.Defined {
				continue
			}
			if !out.Defined || r.Scalar.Value > out.Value {
				out = Scalar{Value: r.Scalar.Value, Defined: true}
			}
		}
		return out

	case AggregationRatio:
		sum := 0.0
		count := 0
		for _, r := range arborResults {
			sum += r.Sum
			count += r.Count
		}
		if count == 0 {
			return Scalar{}
		}
		return Scalar{Value: sum / float64(count), Defined: true}
	}

	return Scalar{}
}
