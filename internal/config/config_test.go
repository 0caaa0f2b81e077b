package config

import (
	"testing"

	"lifereg/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATASET_FILE", "SKIP_ROWS", "COUNTRY_COLUMN", "INDICATOR_COLUMN", "SHEET_NAME",
		"YEAR_START", "YEAR_END", "VIF_THRESHOLD", "REFLECT_OFFSET",
		"CHECKPOINT_DIR", "REPORT_FILE", "DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Data.SkipRows != 3084 {
		t.Errorf("expected default skip rows 3084, got %d", cfg.Data.SkipRows)
	}
	if cfg.Data.CountryColumn != "Country Name" || cfg.Data.IndicatorColumn != "Indicator Code" {
		t.Errorf("unexpected identifier columns: %q / %q", cfg.Data.CountryColumn, cfg.Data.IndicatorColumn)
	}
	if cfg.Analysis.YearStart != 2013 || cfg.Analysis.YearEnd != 2017 {
		t.Errorf("unexpected default window: %d-%d", cfg.Analysis.YearStart, cfg.Analysis.YearEnd)
	}
	if cfg.Analysis.VIFThreshold != 10 {
		t.Errorf("expected default VIF threshold 10, got %v", cfg.Analysis.VIFThreshold)
	}
	if cfg.Analysis.ReflectOffset != 101 {
		t.Errorf("expected default reflect offset 101, got %v", cfg.Analysis.ReflectOffset)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKIP_ROWS", "0")
	t.Setenv("YEAR_START", "2000")
	t.Setenv("YEAR_END", "2010")
	t.Setenv("VIF_THRESHOLD", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Data.SkipRows != 0 {
		t.Errorf("expected skip rows 0, got %d", cfg.Data.SkipRows)
	}
	if cfg.Analysis.YearStart != 2000 || cfg.Analysis.YearEnd != 2010 {
		t.Errorf("unexpected window: %d-%d", cfg.Analysis.YearStart, cfg.Analysis.YearEnd)
	}
	if cfg.Analysis.VIFThreshold != 4 {
		t.Errorf("expected VIF threshold 4, got %v", cfg.Analysis.VIFThreshold)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"negative skip rows", "SKIP_ROWS", "-1"},
		{"inverted year window", "YEAR_START", "2020"},
		{"vif threshold too low", "VIF_THRESHOLD", "1"},
		{"reflect offset at 100", "REFLECT_OFFSET", "100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if errors.GetCode(err) != errors.CodeConfigInvalid {
				t.Errorf("expected CONFIG_INVALID, got %s", errors.GetCode(err))
			}
		})
	}
}
