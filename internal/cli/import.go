package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/trip-planner/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Import trips from a JSON export (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	tripsCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := readInput(args)
	if err != nil {
		exitErr("read input", err)
	}

	var trips []store.TripExport
	if err := json.Unmarshal(data, &trips); err != nil {
		exitErr("parse JSON", err)
	}

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.ImportTrips(cmd.Context(), trips)
	if err != nil {
		exitErr("import", err)
	}

	printJSON(map[string]any{
		"imported": n,
		"skipped":  len(trips) - n,
	})
}

// readInput returns the named file, or stdin when no file or "-" is given.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
