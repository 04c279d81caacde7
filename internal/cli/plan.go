package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/trip-planner/internal/feasibility"
	"github.com/rcliao/trip-planner/internal/model"
	"github.com/rcliao/trip-planner/internal/planner"
	"github.com/rcliao/trip-planner/internal/prefs"
	"github.com/rcliao/trip-planner/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "plan [FILE]",
		Short: "Build an itinerary from a preferences JSON object",
		Long: "Validates the preferences, plans against the venue catalog and re-checks the result. " +
			"Reads stdin when no file is given. Invalid preferences exit with the validation result.",
		Args: cobra.MaximumNArgs(1),
		Run:  runPlan,
	}

	cmd.Flags().Bool("ics", false, "Write the itinerary as iCalendar")

	RootCmd.AddCommand(cmd)
}

type planOutput struct {
	Validation  model.ValidationResult   `json:"validation"`
	Itinerary   *model.Itinerary         `json:"itinerary,omitempty"`
	Feasibility *model.FeasibilityResult `json:"feasibility,omitempty"`
	Unmatched   []string                 `json:"unmatched_venues,omitempty"`
}

func runPlan(cmd *cobra.Command, args []string) {
	ics, _ := cmd.Flags().GetBool("ics")

	cfg := loadConfig()
	p := prefs.Derive(readPreferences(args))

	out := planOutput{Validation: prefs.NewValidator(cfg).Validate(p)}
	if !out.Validation.Valid {
		printJSON(out)
		exitErr("plan", fmt.Errorf("preferences are not valid"))
	}

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()
	cat := newCatalog(cfg, s, newLogger(cfg))

	venues, err := cat.Lookup(cmd.Context(), *p.City, nil)
	if err != nil {
		exitErr("catalog", err)
	}

	it, err := planner.New(cfg).Plan(p, venues)
	if err != nil {
		exitErr("plan", err)
	}
	fr := feasibility.NewChecker(cfg).Check(it, p, venues)
	out.Itinerary = &it
	out.Feasibility = &fr
	out.Unmatched = planner.Unmatched(p, venues)

	switch {
	case ics:
		cal, err := render.ICS(it)
		if err != nil {
			exitErr("ics", err)
		}
		fmt.Print(cal)
	case textOutput():
		fmt.Println(render.Itinerary(it, prefs.WithDefaults(p, cfg)))
		if fb := render.Feasibility(fr); fb != "" {
			fmt.Println()
			fmt.Print(fb)
		}
	default:
		printJSON(out)
	}
}
