package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kidseatfree/venue-cli/internal/model"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List regions in the directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := openCatalog()
		if err != nil {
			return err
		}

		regions := cat.Regions()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(regions)
		}

		formatRegions(os.Stdout, regions)
		return nil
	},
}

func formatRegions(out io.Writer, regions []model.RegionMetadata) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCOUNTRY\tTIMEZONE\tAREAS")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t--------\t-----")

	for _, r := range regions {
		areas := make([]string, 0, len(r.Areas))
		for _, id := range r.AreaIDs() {
			areas = append(areas, r.Areas[id].DisplayName)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Country, r.Timezone, strings.Join(areas, ", "))
	}
	_ = w.Flush()
}

func init() {
	regionsCmd.Flags().Bool("json", false, "print region metadata as JSON")
	rootCmd.AddCommand(regionsCmd)
}
