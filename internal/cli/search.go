package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/trip-planner/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search venues by name, category or description",
		Args:  cobra.ExactArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().String("city", "", "Restrict to a city")
	cmd.Flags().IntP("limit", "l", 10, "Max results")

	venuesCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	city, _ := cmd.Flags().GetString("city")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	venues, err := s.SearchVenues(cmd.Context(), store.SearchParams{
		City:  city,
		Query: args[0],
		Limit: limit,
	})
	if err != nil {
		exitErr("search", err)
	}
	printVenues(venues)
}
