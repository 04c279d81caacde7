// Package config holds the planner configuration threaded into the validator,
// planner and feasibility checker.
package config

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/rcliao/trip-planner/internal/model"
)

// PaceRule is one row of the pace table. Durations are minutes.
type PaceRule struct {
	MinActivities int `mapstructure:"min_activities" yaml:"min_activities"`
	MaxActivities int `mapstructure:"max_activities" yaml:"max_activities"`
	MinDuration   int `mapstructure:"min_duration" yaml:"min_duration"`
	MaxDuration   int `mapstructure:"max_duration" yaml:"max_duration"`
	Buffer        int `mapstructure:"buffer" yaml:"buffer"`
	Lunch         int `mapstructure:"lunch" yaml:"lunch"`
	Dinner        int `mapstructure:"dinner" yaml:"dinner"`
}

// Interest maps a vocabulary entry to the catalog categories it covers.
type Interest struct {
	Name       string   `mapstructure:"name" yaml:"name"`
	Categories []string `mapstructure:"categories" yaml:"categories"`
}

// Budget holds the monetary thresholds.
type Budget struct {
	MinDaily          float64            `mapstructure:"min_daily" yaml:"min_daily"`
	TightDaily        float64            `mapstructure:"tight_daily" yaml:"tight_daily"`
	MealCostPerPerson float64            `mapstructure:"meal_cost_per_person" yaml:"meal_cost_per_person"`
	CategoryCosts     map[string]float64 `mapstructure:"category_costs" yaml:"category_costs"`
	DefaultCost       float64            `mapstructure:"default_cost" yaml:"default_cost"`
}

// Schedule holds day shape settings. Times are minutes after midnight.
type Schedule struct {
	DefaultHoursPerDay int                 `mapstructure:"default_hours_per_day" yaml:"default_hours_per_day"`
	PackedMinHours     int                 `mapstructure:"packed_min_hours" yaml:"packed_min_hours"`
	RelaxedLowHours    int                 `mapstructure:"relaxed_low_hours" yaml:"relaxed_low_hours"`
	DayStart           int                 `mapstructure:"day_start" yaml:"day_start"`
	LunchAt            int                 `mapstructure:"lunch_at" yaml:"lunch_at"`
	DinnerAt           int                 `mapstructure:"dinner_at" yaml:"dinner_at"`
	Paces              map[string]PaceRule `mapstructure:"paces" yaml:"paces"`
}

// Extract configures the extraction adapter.
type Extract struct {
	Provider string        `mapstructure:"provider" yaml:"provider"` // openai | ollama | "" (disabled)
	Model    string        `mapstructure:"model" yaml:"model"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey   string        `mapstructure:"api_key" yaml:"-"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Catalog configures venue lookups.
type Catalog struct {
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	Limit    int           `mapstructure:"limit" yaml:"limit"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Config is the full planner configuration.
type Config struct {
	DB           string     `mapstructure:"db" yaml:"db"`
	TripsDir     string     `mapstructure:"trips_dir" yaml:"trips_dir"`
	MaxTripDays  int        `mapstructure:"max_trip_days" yaml:"max_trip_days"`
	MaxInterests int        `mapstructure:"max_interests" yaml:"max_interests"`
	Interests    []Interest `mapstructure:"interests" yaml:"interests"`
	Budget       Budget     `mapstructure:"budget" yaml:"budget"`
	Schedule     Schedule   `mapstructure:"schedule" yaml:"schedule"`
	Extract      Extract    `mapstructure:"extract" yaml:"extract"`
	Catalog      Catalog    `mapstructure:"catalog" yaml:"catalog"`
	Log          Log        `mapstructure:"log" yaml:"log"`
	SessionCache int        `mapstructure:"session_cache" yaml:"session_cache"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxTripDays:  14,
		MaxInterests: 6,
		Interests: []Interest{
			{Name: "Food and Beverage", Categories: []string{"restaurant", "cafe", "bakery", "brewery", "food", "bar"}},
			{Name: "Entertainment", Categories: []string{"entertainment", "shopping", "nightlife", "casino", "spa"}},
			{Name: "Culture and History", Categories: []string{"museum", "gallery", "church", "historic", "tourism", "culture"}},
			{Name: "Sport", Categories: []string{"sport", "stadium", "golf", "recreation"}},
			{Name: "Natural Place", Categories: []string{"park", "garden", "nature", "beach", "trail", "island"}},
		},
		Budget: Budget{
			MinDaily:          50,
			TightDaily:        70,
			MealCostPerPerson: 0,
			CategoryCosts: map[string]float64{
				"museum":        15,
				"gallery":       12,
				"tourism":       20,
				"culture":       10,
				"entertainment": 20,
				"food":          10,
				"restaurant":    15,
				"sport":         15,
				"park":          0,
				"garden":        0,
				"nature":        0,
				"island":        5,
			},
			DefaultCost: 10,
		},
		Schedule: Schedule{
			DefaultHoursPerDay: 8,
			PackedMinHours:     8,
			RelaxedLowHours:    4,
			DayStart:           9 * 60,
			LunchAt:            12 * 60,
			DinnerAt:           18 * 60,
			Paces: map[string]PaceRule{
				model.PaceRelaxed:  {MinActivities: 2, MaxActivities: 3, MinDuration: 90, MaxDuration: 120, Buffer: 20, Lunch: 90, Dinner: 120},
				model.PaceModerate: {MinActivities: 4, MaxActivities: 5, MinDuration: 60, MaxDuration: 90, Buffer: 15, Lunch: 60, Dinner: 90},
				model.PacePacked:   {MinActivities: 6, MaxActivities: 8, MinDuration: 30, MaxDuration: 60, Buffer: 5, Lunch: 45, Dinner: 60},
			},
		},
		Extract: Extract{
			Timeout: 30 * time.Second,
		},
		Catalog: Catalog{
			Timeout:  5 * time.Second,
			CacheTTL: 10 * time.Minute,
			Limit:    50,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		SessionCache: 128,
	}
}

// Validate rejects configurations the planner cannot work with.
func (c Config) Validate() error {
	if c.Budget.MinDaily <= 0 {
		return fmt.Errorf("budget.min_daily must be positive, got %v", c.Budget.MinDaily)
	}
	if c.Budget.TightDaily < c.Budget.MinDaily {
		return fmt.Errorf("budget.tight_daily (%v) must not be below budget.min_daily (%v)", c.Budget.TightDaily, c.Budget.MinDaily)
	}
	if c.MaxTripDays < 2 {
		return fmt.Errorf("max_trip_days must be at least 2, got %d", c.MaxTripDays)
	}
	if len(c.Interests) == 0 {
		return fmt.Errorf("interest vocabulary is empty")
	}
	for p := range model.ValidPaces {
		rule, ok := c.Schedule.Paces[p]
		if !ok {
			return fmt.Errorf("pace table is missing %q", p)
		}
		if rule.MinActivities < 1 || rule.MinActivities > rule.MaxActivities {
			return fmt.Errorf("pace %q: bad activity band %d-%d", p, rule.MinActivities, rule.MaxActivities)
		}
		if rule.MinDuration < 1 || rule.MinDuration > rule.MaxDuration {
			return fmt.Errorf("pace %q: bad duration band %d-%d", p, rule.MinDuration, rule.MaxDuration)
		}
	}
	for p := range c.Schedule.Paces {
		if !model.ValidPaces[p] {
			return fmt.Errorf("pace table has unknown pace %q", p)
		}
	}
	if c.Schedule.DefaultHoursPerDay < 1 || c.Schedule.DefaultHoursPerDay > 24 {
		return fmt.Errorf("schedule.default_hours_per_day out of range: %d", c.Schedule.DefaultHoursPerDay)
	}
	return nil
}

// Pace returns the rule for a pace, falling back to moderate.
func (c Config) Pace(pace string) PaceRule {
	if r, ok := c.Schedule.Paces[pace]; ok {
		return r
	}
	return c.Schedule.Paces[model.PaceModerate]
}

// InterestNames returns the vocabulary in configured order.
func (c Config) InterestNames() []string {
	return lo.Map(c.Interests, func(i Interest, _ int) string { return i.Name })
}

// CategoryCost estimates the per-person cost of a venue category.
func (c Config) CategoryCost(category string) float64 {
	if v, ok := c.Budget.CategoryCosts[category]; ok {
		return v
	}
	return c.Budget.DefaultCost
}
