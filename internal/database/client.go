// Package database persists analysis runs in a local SQLite store so runs
// over the same morphology can be compared later.
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/morphokit/morphokit/internal/analysis"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Client holds the connection to the results database
type Client struct {
	DB     *sql.DB
	logger *zap.SugaredLogger
}

// NewClient opens (and if needed initializes) the results database at path.
func NewClient(path string, logger *zap.SugaredLogger) (*Client, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping results database: %w", err)
	}

	c := &Client{DB: db, logger: logger}
	if err := c.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) ensureSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id          TEXT PRIMARY KEY,
			label       TEXT NOT NULL,
			created_at  TIMESTAMP NOT NULL,
			result_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_scalars (
			run_id  TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			kernel  TEXT NOT NULL,
			value   REAL NOT NULL,
			defined INTEGER NOT NULL,
			PRIMARY KEY (run_id, kernel)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_label ON analysis_runs(label)`,
	}
	for _, stmt := range schema {
		if _, err := c.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create results schema: %w", err)
		}
	}
	return nil
}

// SaveRun persists a full analysis result and its queryable morphology-level
// scalars in one transaction. Returns the new run's id.
func (c *Client) SaveRun(result *analysis.MorphologyAnalysisResult) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis result: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	tx, err := c.DB.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO analysis_runs (id, label, created_at, result_json) VALUES (?, ?, ?, ?)`,
		id, result.Label, now, string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert analysis run: %w", err)
	}

	for _, r := range result.Results {
		_, err = tx.Exec(
			`INSERT INTO analysis_scalars (run_id, kernel, value, defined) VALUES (?, ?, ?, ?)`,
			id, r.Kernel, r.Morphology.Value, r.Morphology.Defined,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert scalar for kernel %s: %w", r.Kernel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit analysis run: %w", err)
	}

	c.logger.Debugf("stored analysis run %s for morphology %q (%d kernels)",
		id, result.Label, len(result.Results))
	return id, nil
}

// GetRun loads a stored run with its full result payload.
func (c *Client) GetRun(id string) (*StoredRun, error) {
	var run StoredRun
	var payload string

	err := c.DB.QueryRow(
		`SELECT id, label, created_at, result_json FROM analysis_runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Label, &run.CreatedAt, &payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis run %s: %w", id, err)
	}

	run.Result = &analysis.MorphologyAnalysisResult{}
	if err := json.Unmarshal([]byte(payload), run.Result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns summaries of all stored runs, newest first.
func (c *Client) ListRuns() ([]RunSummary, error) {
	rows, err := c.DB.Query(
		`SELECT id, label, created_at FROM analysis_runs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(&run.ID, &run.Label, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}
	return runs, nil
}

// GetScalars returns the morphology-level scalars of one run.
func (c *Client) GetScalars(runID string) ([]ScalarRow, error) {
	rows, err := c.DB.Query(
		`SELECT run_id, kernel, value, defined FROM analysis_scalars WHERE run_id = ? ORDER BY kernel`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scalars: %w", err)
	}
	defer rows.Close()

	var scalars []ScalarRow
	for rows.Next() {
		var row ScalarRow
		if err := rows.Scan(&row.RunID, &row.Kernel, &row.Value, &row.Defined); err != nil {
			return nil, fmt.Errorf("failed to scan scalar row: %w", err)
		}
		scalars = append(scalars, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scalar rows: %w", err)
	}
	return scalars, nil
}

// Close closes the database connection
func (c *Client) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
