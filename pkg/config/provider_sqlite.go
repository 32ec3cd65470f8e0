package config

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	p := &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}
	if err := p.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (s *SQLiteProvider) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	config := &ConfigData{}

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan settings row: %w", err)
		}

		switch key {
		case "debug":
			config.Debug = value == "true"
		case "analysis.kernels":
			if value != "" {
				config.Analysis.Kernels = strings.Split(value, ",")
			}
		case "analysis.parallel":
			config.Analysis.Parallel = value == "true"
		case "analysis.maximum_branching_order":
			order, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("bad maximum_branching_order setting %q: %w", value, err)
			}
			config.Analysis.MaximumBranchingOrder = order
		case "server.listen_addr":
			config.Server.ListenAddr = value
		case "server.morphology_dir":
			config.Server.MorphologyDir = value
		case "storage.results_db":
			config.Storage.ResultsDB = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings rows: %w", err)
	}

	return config, nil
}

// SaveConfig persists the configuration to the database
func (s *SQLiteProvider) SaveConfig(config *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	settings := map[string]string{
		"debug":                            strconv.FormatBool(config.Debug),
		"analysis.kernels":                 strings.Join(config.Analysis.Kernels, ","),
		"analysis.parallel":                strconv.FormatBool(config.Analysis.Parallel),
		"analysis.maximum_branching_order": strconv.Itoa(config.Analysis.MaximumBranchingOrder),
		"server.listen_addr":               config.Server.ListenAddr,
		"server.morphology_dir":            config.Server.MorphologyDir,
		"storage.results_db":               config.Storage.ResultsDB,
	}

	for key, value := range settings {
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
