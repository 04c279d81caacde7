package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/trip-planner/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm TRIP_ID",
		Short: "Delete a trip",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	cmd.Flags().Bool("hard", false, "Permanently delete sessions, transcript and itinerary")

	tripsCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	hard, _ := cmd.Flags().GetBool("hard")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.RmTrip(cmd.Context(), store.RmParams{TripID: args[0], Hard: hard}); err != nil {
		exitErr("rm", err)
	}

	fmt.Println("deleted")
}
