package main

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agdataworks/soilsum-cli/internal/loader"
	"github.com/agdataworks/soilsum-cli/internal/refs"
)

var (
	refsInput  string
	refsOutput string
)

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "Rewrite DOI citations into hyperlinked display strings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := loader.LoadReferences(refsInput)
		if err != nil {
			return eris.Wrap(err, "refs: load")
		}
		prepared := refs.Prepare(loaded)

		w := os.Stdout
		if refsOutput != "" {
			f, err := os.Create(refsOutput)
			if err != nil {
				return eris.Wrapf(err, "refs: create %s", refsOutput)
			}
			defer f.Close()
			w = f
		}

		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"paper_id", "citation", "display"}); err != nil {
			return eris.Wrap(err, "refs: write header")
		}
		for _, r := range prepared {
			if err := cw.Write([]string{r.PaperID, r.Citation, r.Display}); err != nil {
				return eris.Wrap(err, "refs: write row")
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return eris.Wrap(err, "refs: flush")
		}

		zap.L().Info("references prepared", zap.Int("citations", len(prepared)))
		return nil
	},
}

func init() {
	refsCmd.Flags().StringVar(&refsInput, "input", "", "citation CSV (required)")
	refsCmd.Flags().StringVar(&refsOutput, "output", "", "output CSV (default: stdout)")
	_ = refsCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(refsCmd)
}
