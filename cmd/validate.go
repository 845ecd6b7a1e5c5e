package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kidseatfree/venue-cli/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the data directory for structural problems",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}

		report := validate.Run(cat)
		formatValidation(os.Stdout, report)
		if !report.OK() {
			return eris.Errorf("validate: %d problem(s) found", len(report.Problems))
		}
		return nil
	},
}

func formatValidation(w io.Writer, r validate.Report) {
	_, _ = fmt.Fprintf(w, "Checked %d region(s), %d venue(s), %d suburb(s)\n", r.Regions, r.Venues, r.Suburbs)
	if r.OK() {
		_, _ = fmt.Fprintln(w, "All data files are valid.")
		return
	}
	for _, p := range r.Problems {
		_, _ = fmt.Fprintf(w, "  %s\n", p)
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
