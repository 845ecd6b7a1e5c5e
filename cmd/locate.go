package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kidseatfree/venue-cli/internal/location"
)

var locateCmd = &cobra.Command{
	Use:   "locate [address]",
	Short: "Resolve an address or this machine's location to a coordinate",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		device, _ := cmd.Flags().GetBool("device")
		country, _ := cmd.Flags().GetString("country")
		text := strings.TrimSpace(strings.Join(args, " "))

		if device == (text != "") {
			return eris.New("locate: give either --device or an address")
		}

		r := newResolver(cfg)
		r.SetCountryCode(country)

		var st location.State
		if device {
			st = r.UseDeviceLocation(ctx)
		} else {
			st = r.ResolveAddressText(ctx, text)
		}

		formatLocation(os.Stdout, st)
		if st.Status == location.StatusFailed {
			return eris.Errorf("locate: %s", st.Reason)
		}
		return nil
	},
}

func formatLocation(w io.Writer, st location.State) {
	if st.Status == location.StatusFailed {
		_, _ = fmt.Fprintln(w, st.Reason.Message())
		return
	}
	res := st.Resolution
	if res == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Label:      %s\n", res.Label)
	_, _ = fmt.Fprintf(w, "Coordinate: %.6f, %.6f\n", res.Coordinate.Latitude, res.Coordinate.Longitude)
	if res.Suburb != "" {
		_, _ = fmt.Fprintf(w, "Suburb:     %s\n", res.Suburb)
	}
	if res.Postcode != "" {
		_, _ = fmt.Fprintf(w, "Postcode:   %s\n", res.Postcode)
	}
	_, _ = fmt.Fprintf(w, "Source:     %s\n", res.Source)
}

func init() {
	locateCmd.Flags().Bool("device", false, "use this machine's approximate location")
	locateCmd.Flags().String("country", "", "restrict address lookups to a country code (e.g. au)")
	rootCmd.AddCommand(locateCmd)
}
