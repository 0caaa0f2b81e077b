package config

import (
	"os"
	"strconv"

	"lifereg/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Analysis AnalysisConfig
	Paths    PathConfig
	Database DatabaseConfig
}

// DataConfig holds dataset layout settings
type DataConfig struct {
	DatasetFile     string
	SkipRows        int    // data rows to skip after the header; 3084 in the reference WDI layout
	CountryColumn   string
	IndicatorColumn string
	SheetName       string // xlsx only
}

// AnalysisConfig holds pipeline parameters
type AnalysisConfig struct {
	YearStart     int
	YearEnd       int
	VIFThreshold  float64
	ReflectOffset float64 // C in log(C-x) for left-skewed percentage columns
}

// PathConfig holds file system paths for derived artifacts
type PathConfig struct {
	CheckpointDir string
	ReportFile    string
}

// DatabaseConfig holds optional run-persistence settings
type DatabaseConfig struct {
	URL string // empty disables persistence
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			DatasetFile:     os.Getenv("DATASET_FILE"),
			SkipRows:        getEnvIntOrDefault("SKIP_ROWS", 3084),
			CountryColumn:   getEnvOrDefault("COUNTRY_COLUMN", "Country Name"),
			IndicatorColumn: getEnvOrDefault("INDICATOR_COLUMN", "Indicator Code"),
			SheetName:       getEnvOrDefault("SHEET_NAME", "Sheet1"),
		},
		Analysis: AnalysisConfig{
			YearStart:     getEnvIntOrDefault("YEAR_START", 2013),
			YearEnd:       getEnvIntOrDefault("YEAR_END", 2017),
			VIFThreshold:  getEnvFloatOrDefault("VIF_THRESHOLD", 10),
			ReflectOffset: getEnvFloatOrDefault("REFLECT_OFFSET", 101),
		},
		Paths: PathConfig{
			CheckpointDir: getEnvOrDefault("CHECKPOINT_DIR", ""),
			ReportFile:    getEnvOrDefault("REPORT_FILE", ""),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.SkipRows < 0 {
		return errors.ConfigInvalid("SKIP_ROWS must be >= 0")
	}
	if config.Analysis.YearStart > config.Analysis.YearEnd {
		return errors.ConfigInvalid("YEAR_START must not exceed YEAR_END")
	}
	if config.Analysis.VIFThreshold <= 1 {
		return errors.ConfigInvalid("VIF_THRESHOLD must be > 1")
	}
	if config.Analysis.ReflectOffset <= 100 {
		// Percentage columns reach 100; the reflected log needs C-x > 0.
		return errors.ConfigInvalid("REFLECT_OFFSET must be > 100")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
