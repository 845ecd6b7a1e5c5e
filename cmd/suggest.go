package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kidseatfree/venue-cli/internal/model"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <text>",
	Short: "Suggest suburbs matching a prefix",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		region, _ := cmd.Flags().GetString("region")

		s, err := newSession(cmd.Context(), region)
		if err != nil {
			return err
		}

		formatSuggestions(os.Stdout, s.Suggest(strings.Join(args, " ")))
		return nil
	},
}

func formatSuggestions(w io.Writer, suggestions []model.AutocompleteSuggestion) {
	if len(suggestions) == 0 {
		_, _ = fmt.Fprintln(w, "No matching suburbs.")
		return
	}
	for _, sg := range suggestions {
		_, _ = fmt.Fprintf(w, "%s\t%.4f, %.4f\n", sg.DisplayName, sg.Coordinate.Latitude, sg.Coordinate.Longitude)
	}
}

func init() {
	suggestCmd.Flags().String("region", "", "region id (default from data.default_region)")
	rootCmd.AddCommand(suggestCmd)
}
