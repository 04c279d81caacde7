package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/trip-planner/internal/model"
	"github.com/rcliao/trip-planner/internal/render"
	"github.com/rcliao/trip-planner/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trips (latest version of each)",
		Run:   runList,
	}

	cmd.Flags().String("phase", "", "Filter by phase (greeting, intake, confirmed, itinerary)")
	cmd.Flags().String("city", "", "Filter by city")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("ids-only", false, "Only output trip ids")

	tripsCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	phase, _ := cmd.Flags().GetString("phase")
	city, _ := cmd.Flags().GetString("city")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	if phase != "" && !model.ValidPhases[model.Phase(phase)] {
		exitErr("list", fmt.Errorf("unknown phase %q", phase))
	}

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sessions, err := s.ListSessions(cmd.Context(), store.ListParams{
		Phase: model.Phase(phase),
		City:  city,
		Limit: limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if idsOnly {
		for _, sess := range sessions {
			fmt.Println(sess.TripID)
		}
		return
	}
	if textOutput() {
		for _, sess := range sessions {
			fmt.Printf("%s  v%d  %-9s  %s\n", sess.TripID, sess.Version, sess.Phase,
				render.Value(sess.Preferences, "city"))
		}
		return
	}
	printJSON(sessions)
}
