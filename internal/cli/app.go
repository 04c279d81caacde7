package cli

import (
	"log/slog"

	"github.com/rcliao/trip-planner/internal/catalog"
	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/conversation"
	"github.com/rcliao/trip-planner/internal/extract"
	"github.com/rcliao/trip-planner/internal/store"
)

// app is the wired planner behind the conversational commands.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *store.SQLiteStore
	catalog catalog.Catalog
	ctrl    *conversation.Controller
	svc     *conversation.Service
}

// newApp loads config and wires store, catalog, extractor and service.
// It exits the process on failure.
func newApp() *app {
	cfg := loadConfig()
	logger := newLogger(cfg)

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}

	ex, err := extract.NewFromConfig(cfg.Extract)
	if err != nil {
		s.Close()
		exitErr("extractor", err)
	}

	cat := newCatalog(cfg, s, logger)
	ctrl := conversation.NewController(cfg, ex, cat, conversation.WithLogger(logger))
	svc, err := conversation.NewService(ctrl, s, cfg.SessionCache,
		conversation.WithTripsDir(cfg.TripsDir),
		conversation.WithServiceLogger(logger))
	if err != nil {
		s.Close()
		exitErr("session service", err)
	}

	return &app{cfg: cfg, logger: logger, store: s, catalog: cat, ctrl: ctrl, svc: svc}
}

// newCatalog serves venues from the database through a TTL cache, falling
// back to the built-in Toronto set when the table is empty or unreachable.
func newCatalog(cfg config.Config, s *store.SQLiteStore, logger *slog.Logger) catalog.Catalog {
	primary := catalog.NewCached(catalog.NewSQL(s, cfg.Catalog.Limit), cfg.Catalog.CacheTTL, logger)
	return catalog.NewResilient(primary, catalog.Fallback(), cfg.Catalog.Timeout, logger)
}

func (a *app) Close() {
	a.store.Close()
}
