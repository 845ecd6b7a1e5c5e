package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kidseatfree/venue-cli/internal/browse"
)

func writeTable(w io.Writer, results []browse.Result, opts Options) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No venues match the current filters.")
		return err
	}

	now := opts.now()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tAREA\tDAYS\tDISTANCE\tMEMBERSHIP\tVERIFIED\tWEBSITE")
	_, _ = fmt.Fprintln(tw, "----\t----\t----\t--------\t----------\t--------\t-------")

	for _, r := range results {
		v := r.Venue
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Name,
			opts.areaName(v.Area),
			dayList(v.Days),
			distanceText(r.DistanceKm),
			membershipText(v),
			v.VerificationStatus(now),
			v.Website,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d venue(s)\n", len(results))
	return err
}
