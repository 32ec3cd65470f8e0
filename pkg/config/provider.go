// Package config loads analysis tool configuration from pluggable sources.
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Configuration management (for SQLite-specific operations)
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Debug    bool         `json:"debug,omitempty"`
	Analysis AnalysisData `json:"analysis,omitempty"`
	Server   ServerData   `json:"server,omitempty"`
	Storage  StorageData  `json:"storage,omitempty"`
}

// AnalysisData holds default options for analysis runs
type AnalysisData struct {
	// Kernels lists the analysis kernels to run; empty means all registered
	Kernels []string `json:"kernels,omitempty"`

	// Parallel analyzes independent arbors concurrently
	Parallel bool `json:"parallel,omitempty"`

	// MaximumBranchingOrder caps distribution histograms; 0 means inferred
	MaximumBranchingOrder int `json:"maximum_branching_order,omitempty"`
}

// ServerData holds configuration for the HTTP results server
type ServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`

	// MorphologyDir restricts which directory the server reads SWC files from
	MorphologyDir string `json:"morphology_dir,omitempty"`
}

// StorageData holds configuration for the results store
type StorageData struct {
	// ResultsDB is the path to the SQLite results database
	ResultsDB string `json:"results_db,omitempty"`
}
