package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Debug    bool         `yaml:"debug,omitempty"`
		Analysis AnalysisYAML `yaml:"analysis,omitempty"`
		Server   ServerYAML   `yaml:"server,omitempty"`
		Storage  StorageYAML  `yaml:"storage,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Debug: yamlConfig.Debug,
		Analysis: AnalysisData{
			Kernels:               yamlConfig.Analysis.Kernels,
			Parallel:              yamlConfig.Analysis.Parallel,
			MaximumBranchingOrder: yamlConfig.Analysis.MaximumBranchingOrder,
		},
		Server: ServerData{
			ListenAddr:    yamlConfig.Server.ListenAddr,
			MorphologyDir: yamlConfig.Server.MorphologyDir,
		},
		Storage: StorageData{
			ResultsDB: yamlConfig.Storage.ResultsDB,
		},
	}

	y.config = config
	return config, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the file format
type AnalysisYAML struct {
	Kernels               []string `yaml:"kernels,omitempty"`
	Parallel              bool     `yaml:"parallel,omitempty"`
	MaximumBranchingOrder int      `yaml:"maximum-branching-order,omitempty"`
}

type ServerYAML struct {
	ListenAddr    string `yaml:"listen-addr,omitempty"`
	MorphologyDir string `yaml:"morphology-dir,omitempty"`
}

type StorageYAML struct {
	ResultsDB string `yaml:"results-db,omitempty"`
}
