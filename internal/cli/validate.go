package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/trip-planner/internal/extract"
	"github.com/rcliao/trip-planner/internal/model"
	"github.com/rcliao/trip-planner/internal/prefs"
)

func init() {
	cmd := &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate a preferences JSON object (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runValidate,
	}
	RootCmd.AddCommand(cmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	p := readPreferences(args)
	printJSON(prefs.NewValidator(cfg).Validate(p))
}

// readPreferences decodes a preferences object with the same normalization
// the extractors apply.
func readPreferences(args []string) model.Preferences {
	data, err := readInput(args)
	if err != nil {
		exitErr("read input", err)
	}
	p, err := extract.Decode(string(data))
	if err != nil {
		exitErr("parse preferences", err)
	}
	return p
}
