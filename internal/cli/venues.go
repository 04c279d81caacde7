package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/trip-planner/internal/catalog"
	"github.com/rcliao/trip-planner/internal/model"
	"github.com/rcliao/trip-planner/internal/store"
)

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "Manage the venue catalog",
}

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog venues",
		Run:   runVenuesList,
	}
	listCmd.Flags().String("city", "", "Filter by city")
	listCmd.Flags().String("categories", "", "Filter by categories (comma-separated)")
	listCmd.Flags().IntP("limit", "l", 200, "Max results")

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Upsert venues from a YAML or JSON seed file",
		Args:  cobra.ExactArgs(1),
		Run:   runVenuesImport,
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in Toronto venues into the catalog",
		Run:   runVenuesSeed,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write catalog venues as a YAML seed file",
		Run:   runVenuesExport,
	}
	exportCmd.Flags().String("city", "", "Filter by city")
	exportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")

	rmCmd := &cobra.Command{
		Use:   "rm VENUE_ID",
		Short: "Delete a venue from the catalog",
		Args:  cobra.ExactArgs(1),
		Run:   runVenuesRm,
	}

	venuesCmd.AddCommand(listCmd, importCmd, seedCmd, exportCmd, rmCmd)
	RootCmd.AddCommand(venuesCmd)
}

func runVenuesList(cmd *cobra.Command, args []string) {
	city, _ := cmd.Flags().GetString("city")
	cats, _ := cmd.Flags().GetString("categories")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	venues, err := s.ListVenues(cmd.Context(), store.ListVenuesParams{
		City:       city,
		Categories: splitList(cats),
		Limit:      limit,
	})
	if err != nil {
		exitErr("list venues", err)
	}
	printVenues(venues)
}

func runVenuesImport(cmd *cobra.Command, args []string) {
	venues, err := catalog.LoadFile(args[0])
	if err != nil {
		exitErr("load seed", err)
	}
	importVenues(cmd, venues)
}

func runVenuesSeed(cmd *cobra.Command, args []string) {
	importVenues(cmd, catalog.TorontoVenues())
}

func importVenues(cmd *cobra.Command, venues []model.Venue) {
	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.ImportVenues(cmd.Context(), venues)
	if err != nil {
		exitErr("import venues", err)
	}
	printJSON(map[string]int{"imported": n})
}

func runVenuesExport(cmd *cobra.Command, args []string) {
	city, _ := cmd.Flags().GetString("city")
	output, _ := cmd.Flags().GetString("output")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	venues, err := s.ListVenues(cmd.Context(), store.ListVenuesParams{City: city, Limit: 100000})
	if err != nil {
		exitErr("list venues", err)
	}
	b, err := catalog.MarshalYAML(venues)
	if err != nil {
		exitErr("encode", err)
	}
	if output == "" {
		os.Stdout.Write(b)
		return
	}
	if err := os.WriteFile(output, b, 0o644); err != nil {
		exitErr("write", err)
	}
	fmt.Fprintf(os.Stderr, "exported %d venues to %s\n", len(venues), output)
}

func runVenuesRm(cmd *cobra.Command, args []string) {
	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.RmVenue(cmd.Context(), args[0]); err != nil {
		exitErr("rm venue", err)
	}
	fmt.Println("deleted")
}

func printVenues(venues []model.Venue) {
	if !textOutput() {
		printJSON(venues)
		return
	}
	for _, v := range venues {
		fmt.Printf("%-24s %-20s %-14s %s\n", v.ID, v.Category, v.City, v.Name)
	}
}

func splitList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
