package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TRIP_PLANNER_BUDGET_MIN_DAILY.
const EnvPrefix = "TRIP_PLANNER"

// DefaultDir is the per-user state directory.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trip-planner")
}

// Load reads defaults, then the YAML file at path (optional when empty),
// then environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	return LoadWith(v, path)
}

// LoadWith is Load on a caller supplied viper instance, so CLI flags bound
// to v take precedence over file and env values.
func LoadWith(v *viper.Viper, path string) (Config, error) {
	cfg := Default()
	setDefaults(v, cfg)

	if err := loadDotenv(filepath.Join(DefaultDir(), ".env"), ".env"); err != nil {
		return cfg, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// A configured vocabulary replaces the built-in one instead of being
	// merged element by element.
	if v.IsSet("interests") {
		cfg.Interests = nil
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	// Provider specific key fallbacks.
	if cfg.Extract.APIKey == "" && cfg.Extract.Provider == "openai" {
		cfg.Extract.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Extract.BaseURL == "" && cfg.Extract.Provider == "ollama" {
		cfg.Extract.BaseURL = os.Getenv("OLLAMA_HOST")
	}
	if cfg.DB == "" {
		cfg.DB = filepath.Join(DefaultDir(), "trips.db")
	}
	if cfg.TripsDir == "" {
		cfg.TripsDir = filepath.Join(DefaultDir(), "trips")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers scalar keys so AutomaticEnv can override them.
// Lists and maps come from the file only.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("db", cfg.DB)
	v.SetDefault("trips_dir", cfg.TripsDir)
	v.SetDefault("max_trip_days", cfg.MaxTripDays)
	v.SetDefault("max_interests", cfg.MaxInterests)
	v.SetDefault("session_cache", cfg.SessionCache)

	v.SetDefault("budget.min_daily", cfg.Budget.MinDaily)
	v.SetDefault("budget.tight_daily", cfg.Budget.TightDaily)
	v.SetDefault("budget.meal_cost_per_person", cfg.Budget.MealCostPerPerson)
	v.SetDefault("budget.default_cost", cfg.Budget.DefaultCost)

	v.SetDefault("schedule.default_hours_per_day", cfg.Schedule.DefaultHoursPerDay)
	v.SetDefault("schedule.packed_min_hours", cfg.Schedule.PackedMinHours)
	v.SetDefault("schedule.relaxed_low_hours", cfg.Schedule.RelaxedLowHours)
	v.SetDefault("schedule.day_start", cfg.Schedule.DayStart)
	v.SetDefault("schedule.lunch_at", cfg.Schedule.LunchAt)
	v.SetDefault("schedule.dinner_at", cfg.Schedule.DinnerAt)

	v.SetDefault("extract.provider", cfg.Extract.Provider)
	v.SetDefault("extract.model", cfg.Extract.Model)
	v.SetDefault("extract.base_url", cfg.Extract.BaseURL)
	v.SetDefault("extract.api_key", cfg.Extract.APIKey)
	v.SetDefault("extract.timeout", cfg.Extract.Timeout)

	v.SetDefault("catalog.timeout", cfg.Catalog.Timeout)
	v.SetDefault("catalog.cache_ttl", cfg.Catalog.CacheTTL)
	v.SetDefault("catalog.limit", cfg.Catalog.Limit)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// loadDotenv exports variables from the .env files that exist. Variables
// already set in the environment win.
func loadDotenv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
	}
	return nil
}
