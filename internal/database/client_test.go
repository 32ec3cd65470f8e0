package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/morphokit/morphokit/internal/analysis"
	"go.uber.org/zap"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.db")
	c, err := NewClient(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func testResult(label string) *analysis.MorphologyAnalysisResult {
	return &analysis.MorphologyAnalysisResult{
		Label: label,
		Results: []analysis.AnalysisResult{
			{
				Kernel:      "total-length",
				Aggregation: analysis.AggregationSum,
				Format:      analysis.FormatFloat,
				Morphology:  analysis.Scalar{Value: 42.5, Defined: true},
			},
			{
				Kernel:      "max-branching-order",
				Aggregation: analysis.AggregationMax,
				Format:      analysis.FormatInt,
				Morphology:  analysis.Scalar{Defined: false},
			},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	c := testClient(t)

	id, err := c.SaveRun(testResult("neuron-a"))
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveRun returned an empty id")
	}

	run, err := c.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.ID != id || run.Label != "neuron-a" {
		t.Errorf("run = %+v, want id %s label neuron-a", run, id)
	}
	if run.CreatedAt.IsZero() {
		t.Error("run has no creation time")
	}
	if len(run.Result.Results) != 2 {
		t.Fatalf("stored result has %d kernels, want 2", len(run.Result.Results))
	}
	got := run.Result.Results[0]
	if got.Kernel != "total-length" || !got.Morphology.Defined || got.Morphology.Value != 42.5 {
		t.Errorf("round-tripped result = %+v", got)
	}
}

func TestGetRunNotFound(t *testing.T) {
	c := testClient(t)

	_, err := c.GetRun("no-such-run")
	if err == nil {
		t.Fatal("expected an error for a missing run")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want a not-found error", err)
	}
}

func TestListRuns(t *testing.T) {
	c := testClient(t)

	if runs, err := c.ListRuns(); err != nil || len(runs) != 0 {
		t.Fatalf("ListRuns on empty store = %v, %v", runs, err)
	}

	var ids []string
	for _, label := range []string{"neuron-a", "neuron-b", "neuron-c"} {
		id, err := c.SaveRun(testResult(label))
		if err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := c.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("run count = %d, want 3", len(runs))
	}
	seen := make(map[string]bool)
	for _, run := range runs {
		seen[run.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("run %s missing from listing", id)
		}
	}
}

func TestGetScalars(t *testing.T) {
	c := testClient(t)

	id, err := c.SaveRun(testResult("neuron-a"))
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	scalars, err := c.GetScalars(id)
	if err != nil {
		t.Fatalf("GetScalars failed: %v", err)
	}
	if len(scalars) != 2 {
		t.Fatalf("scalar count = %d, want 2", len(scalars))
	}

	// Ordered by kernel name
	if scalars[0].Kernel != "max-branching-order" || scalars[1].Kernel != "total-length" {
		t.Errorf("scalar order = %s, %s", scalars[0].Kernel, scalars[1].Kernel)
	}
	if scalars[0].Defined {
		t.Error("undefined scalar stored as defined")
	}
	if !scalars[1].Defined || scalars[1].Value != 42.5 {
		t.Errorf("total-length scalar = %+v", scalars[1])
	}
}
