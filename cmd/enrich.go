package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kidseatfree/venue-cli/internal/enrich"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [region...]",
	Short: "Geocode venues that have an address but no coordinates",
	Long: "Looks up coordinates, suburb, and postcode for every unmapped venue with an address " +
		"and writes them back to the region's venue file. Lookups are rate limited by geocode.rate_limit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		cat, err := openCatalog()
		if err != nil {
			return err
		}

		e := enrich.New(cat, cfg.Data.Dir, newGeocoder(cfg.Geocode, 0),
			enrich.WithRate(cfg.Geocode.RateLimit),
			enrich.WithDryRun(dryRun),
		)

		reports, err := e.Run(cmd.Context(), args...)
		if err != nil {
			return err
		}

		formatEnrichReports(os.Stdout, reports)
		total := enrich.Totals(reports)
		zap.L().Info("enrich complete",
			zap.Int("updated", total.Updated),
			zap.Int("skipped", total.Skipped),
			zap.Int("failed", total.Failed),
			zap.Bool("dry_run", dryRun),
		)
		return nil
	},
}

func formatEnrichReports(out io.Writer, reports []enrich.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "REGION\tUPDATED\tSKIPPED\tFAILED\tWRITTEN")
	_, _ = fmt.Fprintln(w, "------\t-------\t-------\t------\t-------")
	for _, r := range reports {
		if r.Missing {
			_, _ = fmt.Fprintf(w, "%s\t-\t-\t-\tno venue file\n", r.Region)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%t\n", r.Region, r.Updated, r.Skipped, r.Failed, r.Written)
	}
	_ = w.Flush()

	for _, r := range reports {
		for _, f := range r.Failures {
			_, _ = fmt.Fprintf(out, "  %s: %s (%s): %s\n", r.Region, f.Name, f.Address, f.Reason)
		}
	}
}

func init() {
	enrichCmd.Flags().Bool("dry-run", false, "look up coordinates without writing venue files")
	rootCmd.AddCommand(enrichCmd)
}
