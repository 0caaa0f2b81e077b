package main

import (
	"fmt"
	"os"
	"path/filepath"

	"lifereg/adapters/postgres"
	"lifereg/adapters/tabular"
	"lifereg/internal"
	"lifereg/internal/config"
	"lifereg/internal/pipeline"
	"lifereg/internal/report"
	"lifereg/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load environment variables from .env file; the system environment
	// is fine on its own.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "lifereg",
		Short: "Life expectancy regression pipeline over wide-format indicator data",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newAggregateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runFlags struct {
	dataset       string
	skipRows      int
	yearStart     int
	yearEnd       int
	vifThreshold  float64
	checkpointDir string
	reportFile    string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "Path to the wide-format indicator file (csv or xlsx)")
	cmd.Flags().IntVar(&f.skipRows, "skip-rows", -1, "Data rows to skip after the header (dataset-specific)")
	cmd.Flags().IntVar(&f.yearStart, "year-start", 0, "First year of the aggregation window")
	cmd.Flags().IntVar(&f.yearEnd, "year-end", 0, "Last year of the aggregation window")
	cmd.Flags().Float64Var(&f.vifThreshold, "vif-threshold", 0, "Variance inflation factor threshold")
	cmd.Flags().StringVar(&f.checkpointDir, "checkpoint-dir", "", "Directory for intermediate CSV checkpoints")
	cmd.Flags().StringVar(&f.reportFile, "report", "", "Write a markdown report here (.html renders HTML)")
}

// apply overlays changed flags onto the environment-derived config.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("dataset") {
		cfg.Data.DatasetFile = f.dataset
	}
	if cmd.Flags().Changed("skip-rows") {
		cfg.Data.SkipRows = f.skipRows
	}
	if cmd.Flags().Changed("year-start") {
		cfg.Analysis.YearStart = f.yearStart
	}
	if cmd.Flags().Changed("year-end") {
		cfg.Analysis.YearEnd = f.yearEnd
	}
	if cmd.Flags().Changed("vif-threshold") {
		cfg.Analysis.VIFThreshold = f.vifThreshold
	}
	if cmd.Flags().Changed("checkpoint-dir") {
		cfg.Paths.CheckpointDir = f.checkpointDir
	}
	if cmd.Flags().Changed("report") {
		cfg.Paths.ReportFile = f.reportFile
	}
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis pipeline",
		Long: `Run the full pipeline: aggregate the year window, select and clean
the indicator whitelist, transform and normalize, fit the OLS model,
backward-eliminate under AIC, prune collinear predictors by VIF, and
report diagnostics.

Example: lifereg run --dataset wdi.csv --skip-rows 3084 --year-start 2013 --year-end 2017`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)

			logger := internal.NewDefaultLogger()

			var repo ports.RunRepository
			if cfg.Database.URL != "" {
				db, err := postgres.Connect(cmd.Context(), cfg.Database.URL)
				if err != nil {
					return err
				}
				defer db.Close()
				repo = postgres.NewRunRepository(db)
			}

			runner := pipeline.NewRunner(cfg, logger, repo)
			result, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			md := report.BuildMarkdown(result)
			if cfg.Paths.ReportFile != "" {
				out := []byte(md)
				if filepath.Ext(cfg.Paths.ReportFile) == ".html" {
					out = report.RenderHTML(md)
				}
				if err := os.WriteFile(cfg.Paths.ReportFile, out, 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				logger.Info("report written: %s", cfg.Paths.ReportFile)
			} else {
				fmt.Print(md)
			}

			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newAggregateCmd() *cobra.Command {
	flags := &runFlags{}
	var out string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Produce the tidy country-indicator matrix only",
		Long: `Aggregate the raw indicator file over the year window and write the
resulting country-indicator matrix as CSV, without fitting any model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			if cfg.Data.DatasetFile == "" {
				return fmt.Errorf("--dataset (or DATASET_FILE) is required")
			}

			reader := tabular.NewDataReader(cfg.Data.DatasetFile, tabular.ReaderOptions{
				SkipRows:  cfg.Data.SkipRows,
				SheetName: cfg.Data.SheetName,
			})
			raw, err := reader.ReadTable()
			if err != nil {
				return err
			}

			obs, err := pipeline.Melt(raw, pipeline.MeltOptions{
				CountryColumn:   cfg.Data.CountryColumn,
				IndicatorColumn: cfg.Data.IndicatorColumn,
			})
			if err != nil {
				return err
			}

			matrix, err := pipeline.NewAggregator(cfg.Analysis.YearStart, cfg.Analysis.YearEnd).Aggregate(obs)
			if err != nil {
				return err
			}

			if err := tabular.WriteMatrixCSV(out, matrix); err != nil {
				return err
			}
			fmt.Printf("wrote %d countries x %d indicators to %s\n", len(matrix.Countries), len(matrix.Indicators), out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "country_indicator_matrix.csv", "Output CSV path")
	return cmd
}
