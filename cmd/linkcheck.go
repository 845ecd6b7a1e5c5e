package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kidseatfree/venue-cli/internal/linkcheck"
	"github.com/kidseatfree/venue-cli/internal/resilience"
)

var linkcheckCmd = &cobra.Command{
	Use:   "linkcheck [region...]",
	Short: "Check that venue websites respond",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		cat, err := openCatalog()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			for _, r := range cat.Regions() {
				args = append(args, r.ID)
			}
		}

		var targets []linkcheck.Target
		for _, id := range args {
			doc, err := cat.LoadVenues(id)
			if err != nil {
				return err
			}
			targets = append(targets, linkcheck.Targets(id, doc.Venues)...)
		}

		policy := resilience.DefaultPolicy()
		policy.Attempts = cfg.LinkCheck.MaxAttempts

		checker := linkcheck.New(
			linkcheck.WithConcurrency(cfg.LinkCheck.Concurrency),
			linkcheck.WithTimeout(cfg.LinkCheck.Timeout()),
			linkcheck.WithPolicy(policy),
		)

		results, err := checker.Check(cmd.Context(), targets)
		if err != nil {
			return err
		}

		shown := results
		if !all {
			shown = linkcheck.Failures(results)
		}
		formatLinkResults(os.Stdout, shown, linkcheck.Summarize(results))

		if failed := linkcheck.Summarize(results).Failed; failed > 0 {
			return eris.Errorf("linkcheck: %d website(s) failed", failed)
		}
		return nil
	},
}

func formatLinkResults(out io.Writer, results []linkcheck.Result, sum linkcheck.Summary) {
	if len(results) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "REGION\tVENUE\tSTATUS\tURL\tNOTE")
		_, _ = fmt.Fprintln(w, "------\t-----\t------\t---\t----")
		for _, r := range results {
			status := "-"
			if r.Status > 0 {
				status = fmt.Sprintf("%d", r.Status)
			}
			note := r.Error
			if note == "" && r.Redirected {
				note = "redirects to " + r.FinalURL
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Region, r.VenueName, status, r.URL, note)
		}
		_ = w.Flush()
	}
	_, _ = fmt.Fprintf(out, "\n%d checked, %d ok, %d failed\n", sum.Total, sum.OK, sum.Failed)
}

func init() {
	linkcheckCmd.Flags().Bool("all", false, "list every result, not just failures")
	rootCmd.AddCommand(linkcheckCmd)
}
