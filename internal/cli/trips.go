package cli

import "github.com/spf13/cobra"

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "Inspect and manage stored trips",
}

func init() {
	RootCmd.AddCommand(tripsCmd)
}
