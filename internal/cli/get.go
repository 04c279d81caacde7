package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/prefs"
	"github.com/rcliao/trip-planner/internal/render"
	"github.com/rcliao/trip-planner/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get TRIP_ID",
		Short: "Show a trip's session, transcript or itinerary",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().Bool("history", false, "Return all session versions (newest first)")
	cmd.Flags().IntP("version", "v", 0, "Specific session version")
	cmd.Flags().Bool("messages", false, "Show the transcript instead")
	cmd.Flags().Bool("itinerary", false, "Show the stored itinerary instead")
	cmd.Flags().Bool("ics", false, "Write the stored itinerary as iCalendar")

	tripsCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	tripID := args[0]
	history, _ := cmd.Flags().GetBool("history")
	version, _ := cmd.Flags().GetInt("version")
	messages, _ := cmd.Flags().GetBool("messages")
	itinerary, _ := cmd.Flags().GetBool("itinerary")
	ics, _ := cmd.Flags().GetBool("ics")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()
	ctx := cmd.Context()

	switch {
	case messages:
		msgs, err := s.Messages(ctx, tripID)
		if err != nil {
			exitErr("messages", err)
		}
		if textOutput() {
			for _, m := range msgs {
				fmt.Printf("[%s] %s\n%s\n\n", m.Role, m.CreatedAt.Format("2006-01-02 15:04"), m.Content)
			}
			return
		}
		printJSON(msgs)

	case itinerary || ics:
		showItinerary(cmd, s, cfg, tripID, ics)

	default:
		sessions, err := s.GetSession(ctx, store.GetSessionParams{
			TripID:  tripID,
			History: history,
			Version: version,
		})
		if err != nil {
			exitErr("get", err)
		}
		if history || len(sessions) > 1 {
			printJSON(sessions)
		} else if textOutput() {
			fmt.Println(render.Summary(prefs.Derive(sessions[0].Preferences)))
		} else {
			printJSON(sessions[0])
		}
	}
}

func showItinerary(cmd *cobra.Command, s *store.SQLiteStore, cfg config.Config, tripID string, ics bool) {
	it, err := s.GetItinerary(cmd.Context(), tripID)
	if err != nil {
		exitErr("itinerary", err)
	}
	if ics {
		out, err := render.ICS(it.Itinerary)
		if err != nil {
			exitErr("ics", err)
		}
		fmt.Print(out)
		return
	}
	if !textOutput() {
		printJSON(it)
		return
	}
	sessions, err := s.GetSession(cmd.Context(), store.GetSessionParams{TripID: tripID})
	if err != nil {
		exitErr("get", err)
	}
	p := prefs.WithDefaults(prefs.Derive(sessions[0].Preferences), cfg)
	fmt.Println(render.Itinerary(it.Itinerary, p))
	if fb := render.Feasibility(it.Feasibility); fb != "" {
		fmt.Println()
		fmt.Print(fb)
	}
}
