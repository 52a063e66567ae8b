package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all bankpanel configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name" ignored:"true"`
	Version string `yaml:"version" ignored:"true"`

	// Input/output locations
	Data DataConfig `yaml:"data"`

	// Fuzzy matching
	Match MatchConfig `yaml:"match"`

	// Year range filter for the panel
	Years YearRange `yaml:"years"`

	// SQLite persistence
	Store StoreConfig `yaml:"store"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates the flat-file inputs and outputs.
type DataConfig struct {
	Dir      string `yaml:"dir" envconfig:"DATA_DIR"`
	EdgarDir string `yaml:"edgar_dir" envconfig:"EDGAR_DIR"`
	OutDir   string `yaml:"out_dir" envconfig:"OUT_DIR"`

	// Input file names, relative to Dir (SOD via glob) or EdgarDir.
	AnnualFile       string `yaml:"annual_file" envconfig:"ANNUAL_FILE"`
	RegistryFile     string `yaml:"registry_file" envconfig:"REGISTRY_FILE"`
	SODPattern       string `yaml:"sod_pattern" envconfig:"SOD_PATTERN"`
	CompanyFile      string `yaml:"company_file" envconfig:"COMPANY_FILE"`
	AnnualFilings    string `yaml:"annual_filings" envconfig:"ANNUAL_FILINGS"`
	QuarterlyFilings string `yaml:"quarterly_filings" envconfig:"QUARTERLY_FILINGS"`

	// Output file names, relative to OutDir.
	PanelFile      string `yaml:"panel_file" envconfig:"PANEL_FILE"`
	DictionaryFile string `yaml:"dictionary_file" envconfig:"DICTIONARY_FILE"`
}

// MatchConfig configures the CIK-RSSD fuzzy matcher.
type MatchConfig struct {
	// Minimum token-sort similarity (0-100) to accept a match. Inclusive.
	Threshold int `yaml:"threshold" envconfig:"MATCH_THRESHOLD"`

	// Log a progress line every N registry banks.
	ProgressEvery int `yaml:"progress_every" ignored:"true"`
}

// YearRange bounds the observations kept in the panel.
type YearRange struct {
	Min int `yaml:"min" envconfig:"YEAR_MIN"`
	Max int `yaml:"max" envconfig:"YEAR_MAX"`
}

// StoreConfig configures SQLite persistence.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path" envconfig:"DB_PATH"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"LOG_ENABLED"`
	Level   string `yaml:"level" envconfig:"LOG_LEVEL"`
	Dir     string `yaml:"dir" envconfig:"LOG_DIR"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "bankpanel",
		Version: "1.0.0",

		Data: DataConfig{
			Dir:              "data",
			EdgarDir:         filepath.Join("data", "edgar"),
			OutDir:           "out",
			AnnualFile:       "bank_innovation_dataset_annual.csv",
			RegistryFile:     "bank_registry.csv",
			SODPattern:       "SOD*.csv",
			CompanyFile:      "bank_company_summary.csv",
			AnnualFilings:    "bank_filings_annual.csv",
			QuarterlyFilings: "bank_filings_quarterly.csv",
			PanelFile:        "bank_innovation_panel.csv",
			DictionaryFile:   "data_dictionary.pdf",
		},

		Match: MatchConfig{
			Threshold:     80,
			ProgressEvery: 500,
		},

		Years: YearRange{
			Min: 2010,
			Max: 2021,
		},

		Store: StoreConfig{
			DatabasePath: filepath.Join("out", "bankpanel.db"),
		},

		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Dir:     filepath.Join("out", "logs"),
		},
	}
}

// Load loads configuration from a YAML file, then applies environment
// overrides (BANKPANEL_* variables). A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := envconfig.Process("bankpanel", cfg); err != nil {
				return nil, fmt.Errorf("failed to apply env overrides: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := envconfig.Process("bankpanel", cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data directory not configured")
	}
	if c.Match.Threshold < 0 || c.Match.Threshold > 100 {
		return fmt.Errorf("match threshold must be in [0,100], got %d", c.Match.Threshold)
	}
	if c.Years.Min > c.Years.Max {
		return fmt.Errorf("invalid year range: %d-%d", c.Years.Min, c.Years.Max)
	}
	return nil
}

// AnnualPath returns the path to the FFIEC annual dataset.
func (c *Config) AnnualPath() string {
	return filepath.Join(c.Data.Dir, c.Data.AnnualFile)
}

// RegistryPath returns the path to the bank registry.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Data.Dir, c.Data.RegistryFile)
}

// CompanyPath returns the path to the Edgar company summary.
func (c *Config) CompanyPath() string {
	return filepath.Join(c.Data.EdgarDir, c.Data.CompanyFile)
}

// AnnualFilingsPath returns the path to the Edgar annual filings file.
func (c *Config) AnnualFilingsPath() string {
	return filepath.Join(c.Data.EdgarDir, c.Data.AnnualFilings)
}

// QuarterlyFilingsPath returns the path to the Edgar quarterly filings file.
func (c *Config) QuarterlyFilingsPath() string {
	return filepath.Join(c.Data.EdgarDir, c.Data.QuarterlyFilings)
}

// PanelPath returns the path for the final panel CSV.
func (c *Config) PanelPath() string {
	return filepath.Join(c.Data.OutDir, c.Data.PanelFile)
}

// DictionaryPath returns the path for the generated PDF data dictionary.
func (c *Config) DictionaryPath() string {
	return filepath.Join(c.Data.OutDir, c.Data.DictionaryFile)
}
