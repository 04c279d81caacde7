package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}
	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	st, err := s.Stats(cmd.Context(), cfg.DB)
	if err != nil {
		exitErr("stats", err)
	}

	if !textOutput() {
		printJSON(st)
		return
	}
	fmt.Printf("database     %s (%s)\n", st.DBPath, humanize.Bytes(uint64(st.DBSizeBytes)))
	fmt.Printf("trips        %s (%s session versions)\n", humanize.Comma(int64(st.Trips)), humanize.Comma(int64(st.SessionVersions)))
	fmt.Printf("messages     %s\n", humanize.Comma(int64(st.Messages)))
	fmt.Printf("itineraries  %s\n", humanize.Comma(int64(st.Itineraries)))
	fmt.Printf("venues       %s\n", humanize.Comma(int64(st.Venues)))
	for _, ph := range st.Phases {
		fmt.Printf("  %-10s %d trips\n", ph.Phase, ph.Trips)
	}
	for _, c := range st.Cities {
		fmt.Printf("  %-10s %d venues\n", c.City, c.Venues)
	}
}
