// Package cli implements the trip-planner CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/logging"
	"github.com/rcliao/trip-planner/internal/store"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "trip-planner",
	Short: "Plan multi-day trips from a fixed venue catalog",
	Long: "A conversational trip planner. Collects trip preferences turn by turn, validates them, " +
		"and builds a day-by-day itinerary using only venues from the catalog. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.trip-planner/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $TRIP_PLANNER_DB or ~/.trip-planner/trips.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

// loadConfig resolves defaults, the config file, env and flags, in that order.
func loadConfig() config.Config {
	v := viper.New()
	v.BindPFlag("db", RootCmd.PersistentFlags().Lookup("db"))
	v.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))

	cfg, err := config.LoadWith(v, configPath)
	if err != nil {
		exitErr("load config", err)
	}
	return cfg
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

func openStore(cfg config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DB)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func textOutput() bool {
	return formatFlag == "text"
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
