package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ledgerscope/app"
	"ledgerscope/internal/api"
	"ledgerscope/internal/config"
	"ledgerscope/internal/ledger"
	"ledgerscope/internal/report"
)

// dataFlags are shared by the analyze and benford commands and override the
// environment-derived configuration.
type dataFlags struct {
	file     string
	sheetXML string
	column   string
	minCount int
	outDir   string
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "path to the .xlsx container")
	cmd.Flags().StringVar(&f.sheetXML, "sheet-xml", "", "worksheet stream path inside the workbook (default: sheet1)")
	cmd.Flags().StringVar(&f.column, "column", "", "column header to analyze (default: auto-selected)")
	cmd.Flags().IntVar(&f.minCount, "min-count", 0, "minimum numeric values to accept a column (default: 10)")
	cmd.Flags().StringVar(&f.outDir, "out", "", "output directory (default: outputs)")
}

// loadConfig merges environment configuration with command-line overrides.
func (f *dataFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.file != "" {
		cfg.Data.File = f.file
	}
	if f.sheetXML != "" {
		cfg.Data.SheetPath = f.sheetXML
	}
	if f.column != "" {
		cfg.Data.Column = f.column
	}
	if f.minCount > 0 {
		cfg.Data.MinCount = f.minCount
	}
	if f.outDir != "" {
		cfg.Output.Dir = f.outDir
	}
	if cfg.Data.File == "" {
		return nil, fmt.Errorf("no container given: set --file or DATA_FILE")
	}
	return cfg, nil
}

func main() {
	setupEnvironment()

	rootCmd := &cobra.Command{
		Use:   "ledgerscope",
		Short: "Extract a workbook grid and run descriptive and Benford forensics over it",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newBenfordCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var flags dataFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Profile the workbook: counts, missingness, date ranges, numeric summaries",
		Long: `Decode the workbook grid and write the data profile artifacts:
summary.json, numeric_summary.csv, summary.md and summary.html.

Example: ledgerscope analyze --file je_samples.xlsx --out outputs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cfg)
		},
	}
	flags.register(cmd)
	return cmd
}

func newBenfordCmd() *cobra.Command {
	var flags dataFlags

	cmd := &cobra.Command{
		Use:   "benford",
		Short: "Run the Benford leading-digit comparison on one numeric column",
		Long: `Select a numeric column (explicitly or by the minimum-count rule), compare
its leading-digit distribution against Benford's Law and write
benford_summary.{json,csv,md,html} plus benford_chart.svg.

Example: ledgerscope benford --file je_samples.xlsx --column amount_usd`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			return runBenford(cmd.Context(), cfg)
		},
	}
	flags.register(cmd)
	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			runs := openLedger(cfg)
			if runs != nil {
				defer runs.Close()
			}

			server := api.NewServer(cfg, runs, log.Logger)
			return server.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default: 8080)")
	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config) error {
	service := app.NewAnalysisService(cfg, log.Logger)
	profile, err := service.Profile(ctx)
	if err != nil {
		return err
	}

	written, err := report.NewWriter(cfg.Output.Dir).WriteProfile(profile)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Println(path)
	}
	return nil
}

func runBenford(ctx context.Context, cfg *config.Config) error {
	service := app.NewAnalysisService(cfg, log.Logger)
	result, err := service.Benford(ctx)
	if err != nil {
		return err
	}

	written, err := report.NewWriter(cfg.Output.Dir).WriteBenford(result.Summary, result.SVG)
	if err != nil {
		return err
	}

	if runs := openLedger(cfg); runs != nil {
		defer runs.Close()
		run := ledger.Run{
			ID:          result.RunID.String(),
			File:        cfg.Data.File,
			Column:      result.Summary.Column,
			TotalValues: result.Summary.Total,
			ChiSquare:   result.Summary.ChiSquare,
			PValue:      result.Summary.PValue,
		}
		if err := runs.RecordRun(ctx, run); err != nil {
			log.Warn().Err(err).Msg("failed to record analysis run")
		}
	}

	for _, path := range written {
		fmt.Println(path)
	}
	return nil
}

// openLedger connects to the run ledger when configured; a missing database
// is not an error, just a skipped feature.
func openLedger(cfg *config.Config) *ledger.Ledger {
	if cfg.Database.URL == "" {
		return nil
	}
	runs, err := ledger.Open(cfg.Database.URL)
	if err != nil {
		log.Warn().Err(err).Msg("run ledger unavailable, continuing without it")
		return nil
	}
	return runs
}
