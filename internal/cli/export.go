package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export [TRIP_ID...]",
		Short: "Export trips as JSON (all trips when no id is given)",
		Run:   runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")

	tripsCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	output, _ := cmd.Flags().GetString("output")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	trips, err := s.ExportTrips(cmd.Context(), args...)
	if err != nil {
		exitErr("export", err)
	}

	if output == "" {
		printJSON(trips)
		return
	}
	if err := writeJSON(output, trips); err != nil {
		exitErr("write", err)
	}
	fmt.Fprintf(os.Stderr, "exported %d trips to %s\n", len(trips), output)
}
