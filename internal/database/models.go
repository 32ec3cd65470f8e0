package database

import (
	"time"

	"github.com/morphokit/morphokit/internal/analysis"
)

// StoredRun is one persisted analysis run with its full result.
type StoredRun struct {
	ID        string                             `json:"id"`
	Label     string                             `json:"label"`
	CreatedAt time.Time                          `json:"createdAt"`
	Result    *analysis.MorphologyAnalysisResult `json:"result"`
}

// RunSummary identifies a persisted run without loading its result payload.
type RunSummary struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScalarRow is one queryable morphology-level scalar of a stored run.
type ScalarRow struct {
	RunID   string  `json:"runId"`
	Kernel  string  `json:"kernel"`
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}
