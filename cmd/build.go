package main

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agdataworks/soilsum-cli/internal/aggregate"
	"github.com/agdataworks/soilsum-cli/internal/export"
	"github.com/agdataworks/soilsum-cli/internal/loader"
	"github.com/agdataworks/soilsum-cli/internal/model"
	"github.com/agdataworks/soilsum-cli/internal/store"
)

var (
	buildInput   string
	buildSheet   string
	buildOutput  string
	buildFormat  string
	buildKind    string
	buildPersist bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the aggregation pipeline on a comparison-record file",
	Long: `Loads comparison records from CSV or XLSX, builds the base and
depth-cumulative summaries, and writes the result.

Examples:
  # CSV in, cumulative summary as CSV out
  soilsum build --input comparisons.csv --output summary.csv

  # XLSX in, base summary as JSON, persisted to the store
  soilsum build --input comparisons.xlsx --kind base --format json --persist`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := loadRecords(buildInput, buildSheet)
		if err != nil {
			return err
		}
		zap.L().Info("loaded records",
			zap.Int("records", len(records)),
			zap.String("input", buildInput),
		)

		ds, err := aggregate.Run(ctx, records, aggregate.Options{
			MinComparisons: cfg.Aggregate.MinComparisons,
			KeepZeroSE:     cfg.Aggregate.KeepZeroSE,
		})
		if err != nil {
			return eris.Wrap(err, "build: aggregate")
		}

		if buildPersist {
			buildID, err := persistDataset(ctx, ds)
			if err != nil {
				return err
			}
			zap.L().Info("dataset persisted", zap.String("build_id", buildID))
		}

		rows := ds.Cumulative
		if buildKind == "base" {
			rows = ds.Base
		}
		return writeRows(rows, buildOutput, buildFormat)
	},
}

func loadRecords(path, sheet string) ([]model.Record, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		records, err := loader.LoadXLSX(path, loader.XLSXOptions{SheetName: sheet})
		return records, eris.Wrap(err, "build: load xlsx")
	}
	records, err := loader.LoadCSV(path)
	return records, eris.Wrap(err, "build: load csv")
}

func persistDataset(ctx context.Context, ds *aggregate.Dataset) (string, error) {
	st, err := openStore(ctx)
	if err != nil {
		return "", err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return "", eris.Wrap(err, "build: migrate store")
	}
	buildID, err := st.SaveDataset(ctx, ds)
	return buildID, eris.Wrap(err, "build: save dataset")
}

func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		return st, eris.Wrap(err, "open postgres store")
	case "sqlite", "":
		st, err := store.NewSQLite(cfg.Store.DatabaseURL)
		return st, eris.Wrap(err, "open sqlite store")
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func writeRows(rows []model.SummaryRow, output, format string) error {
	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return eris.Wrapf(err, "build: create %s", output)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return export.WriteJSON(w, rows)
	case "csv", "":
		return export.WriteCSV(w, rows)
	default:
		return eris.Errorf("unknown output format %q", format)
	}
}

func init() {
	buildCmd.Flags().StringVar(&buildInput, "input", "", "comparison-record file, .csv or .xlsx (required)")
	buildCmd.Flags().StringVar(&buildSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "output file (default: stdout)")
	buildCmd.Flags().StringVar(&buildFormat, "format", "csv", "output format: csv or json")
	buildCmd.Flags().StringVar(&buildKind, "kind", "cumulative", "summary to write: base or cumulative")
	buildCmd.Flags().BoolVar(&buildPersist, "persist", false, "save the dataset to the configured store")
	_ = buildCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(buildCmd)
}
