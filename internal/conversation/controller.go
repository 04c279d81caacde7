package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/rcliao/trip-planner/internal/catalog"
	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/extract"
	"github.com/rcliao/trip-planner/internal/feasibility"
	"github.com/rcliao/trip-planner/internal/intent"
	"github.com/rcliao/trip-planner/internal/logging"
	"github.com/rcliao/trip-planner/internal/model"
	"github.com/rcliao/trip-planner/internal/planner"
	"github.com/rcliao/trip-planner/internal/prefs"
	"github.com/rcliao/trip-planner/internal/render"
)

// ErrClosedWorld marks an itinerary that references a venue outside the
// snapshot it was planned from. It is an internal defect.
var ErrClosedWorld = errors.New("itinerary references a venue outside the catalog snapshot")

const (
	transientMessage = "Sorry, I couldn't process that just now. Could you say it again?"
	defectMessage    = "Sorry, I was unable to generate a valid itinerary. Please try again."
)

// Response is the outcome of one turn.
type Response struct {
	TripID      string                   `json:"trip_id"`
	Phase       model.Phase              `json:"phase"`
	Message     string                   `json:"message"`
	StillNeed   []string                 `json:"still_need,omitempty"`
	Captured    []string                 `json:"captured,omitempty"`
	Validation  *model.ValidationResult  `json:"validation,omitempty"`
	Itinerary   *model.Itinerary         `json:"itinerary,omitempty"`
	Feasibility *model.FeasibilityResult `json:"feasibility,omitempty"`
	Unmatched   []string                 `json:"unmatched_venues,omitempty"`
	Transient   bool                     `json:"transient,omitempty"`
}

// Controller runs single turns. It holds no per-trip state and is safe for
// concurrent use across trips.
type Controller struct {
	cfg        config.Config
	extractor  extract.Extractor
	catalog    catalog.Catalog
	classifier intent.Classifier
	validator  *prefs.Validator
	planner    *planner.Planner
	checker    *feasibility.Checker
	plan       func(model.Preferences, []model.Venue) (model.Itinerary, error)
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClassifier replaces the affirmation classifier.
func WithClassifier(c intent.Classifier) Option {
	return func(ctl *Controller) { ctl.classifier = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(ctl *Controller) { ctl.logger = l }
}

// WithClock overrides the clock used for validation and itinerary stamps.
func WithClock(now func() time.Time) Option {
	return func(ctl *Controller) { ctl.now = now }
}

// NewController creates a Controller.
func NewController(cfg config.Config, ex extract.Extractor, cat catalog.Catalog, opts ...Option) *Controller {
	c := &Controller{
		cfg:        cfg,
		extractor:  ex,
		catalog:    cat,
		classifier: intent.NewKeywords(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	if c.catalog == nil {
		c.catalog = catalog.NewStatic(nil)
	}
	c.logger = logging.Component(c.logger, "conversation")
	c.validator = prefs.NewValidator(cfg, prefs.WithClock(c.now))
	c.planner = planner.New(cfg, planner.WithClock(c.now))
	c.checker = feasibility.NewChecker(cfg)
	c.plan = c.planner.Plan
	return c
}

// Greet is the response for a trip that has no user turn yet.
func (c *Controller) Greet(tripID string) Response {
	return Response{
		TripID:    tripID,
		Phase:     model.PhaseGreeting,
		Message:   render.Greeting(),
		StillNeed: model.RequiredFields,
	}
}

// Turn applies one user utterance to sess and returns the updated session
// with the reply. When extraction fails the session comes back unchanged and
// the reply is marked transient.
func (c *Controller) Turn(ctx context.Context, sess model.Session, text string) (model.Session, Response) {
	phase := sess.Phase
	if phase == "" {
		phase = model.PhaseGreeting
	}
	prior := sess.Preferences
	prior.TripID = sess.TripID
	log := c.logger.With("trip_id", sess.TripID)

	affirmed := c.classifier.Affirmative(text)
	merged := prior
	if !(phase == model.PhaseConfirmed && affirmed) {
		// a bare affirmation carries no trip details
		proposal, err := c.extract(ctx, text, prior)
		if err != nil {
			log.WarnContext(ctx, "extraction failed", "phase", phase, "error", err)
			return sess, Response{TripID: sess.TripID, Phase: phase, Message: transientMessage, Transient: true}
		}
		merged = prefs.Merge(prior, proposal)
	}

	captured := prefs.Captured(prior, merged)
	vr := c.validator.Validate(merged)
	next := Next(phase, Signal{
		Captured:     captured,
		Contradicted: prefs.Diff(prior, merged),
		Valid:        vr.Valid,
		Affirmed:     affirmed,
	})

	if len(captured) > 0 {
		now := c.now().UTC()
		if merged.CreatedAt == nil {
			merged.CreatedAt = &now
		}
		merged.UpdatedAt = &now
	}

	resp := Response{TripID: sess.TripID, Captured: captured, Validation: &vr}
	switch next {
	case model.PhaseIntake:
		resp.StillNeed = vr.Missing
		resp.Message = intakeMessage(merged, captured, vr)
	case model.PhaseConfirmed:
		resp.Message = joinParts(render.Acknowledge(merged, captured), notes(vr.Warnings), render.Summary(prefs.Derive(merged)))
	case model.PhaseItinerary:
		if phase == model.PhaseItinerary {
			resp.Message = "Your itinerary is ready. Tell me what you'd like to change, or start a new trip."
			break
		}
		if err := c.generate(ctx, merged, &resp); err != nil {
			log.ErrorContext(ctx, "itinerary generation failed", "error", err)
			resp.Itinerary, resp.Feasibility = nil, nil
			resp.Message = defectMessage
			next = model.PhaseConfirmed
		}
	}
	resp.Phase = next

	if next != phase {
		log.InfoContext(ctx, "phase transition", "from", phase, "to", next)
	}
	sess.Phase = next
	sess.Preferences = merged
	return sess, resp
}

func (c *Controller) extract(ctx context.Context, text string, prior model.Preferences) (model.Preferences, error) {
	if c.extractor == nil {
		return model.Preferences{}, &extract.Error{Provider: "none", Err: errors.New("no extractor configured")}
	}
	if t := c.cfg.Extract.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	return c.extractor.Extract(ctx, text, prior)
}

// generate plans and checks the itinerary and fills resp. An error means
// nothing may be shown.
func (c *Controller) generate(ctx context.Context, p model.Preferences, resp *Response) error {
	city := ""
	if p.City != nil {
		city = *p.City
	}
	categories := c.cfg.Categories(p.Interests)
	snapshot, err := c.catalog.Lookup(ctx, city, categories)
	if err != nil {
		c.logger.WarnContext(ctx, "catalog lookup failed", "trip_id", p.TripID, "city", city, "error", err)
		snapshot = nil
	}

	// must-see venues may sit outside the interest categories
	var all []model.Venue
	if len(p.MustSeeVenues) > 0 {
		all, err = c.catalog.Lookup(ctx, city, nil)
		if err != nil {
			c.logger.WarnContext(ctx, "catalog lookup failed", "trip_id", p.TripID, "city", city, "error", err)
		}
		for _, ref := range p.MustSeeVenues {
			if _, ok := catalog.Find(snapshot, ref); ok {
				continue
			}
			if v, ok := catalog.Find(all, ref); ok && !lo.ContainsBy(snapshot, func(s model.Venue) bool { return s.ID == v.ID }) {
				snapshot = append(snapshot, v)
			}
		}
	}

	it, err := c.plan(p, snapshot)
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	known := lo.SliceToMap(snapshot, func(v model.Venue) (string, bool) { return v.ID, true })
	if stray := lo.Filter(it.VenueIDs(), func(id string, _ int) bool { return !known[id] }); len(stray) > 0 {
		return fmt.Errorf("%w: %s", ErrClosedWorld, strings.Join(stray, ", "))
	}
	fr := c.checker.Check(it, p, snapshot)
	if len(fr.UnknownVenues) > 0 {
		return fmt.Errorf("%w: %s", ErrClosedWorld, strings.Join(fr.UnknownVenues, ", "))
	}
	if !fr.Feasible {
		c.logger.WarnContext(ctx, "itinerary failed feasibility", "trip_id", p.TripID, "issues", len(fr.Issues))
	}

	var parts []string
	resp.Unmatched = planner.Unmatched(p, snapshot)
	for _, ref := range resp.Unmatched {
		alts := catalog.Alternatives(ctx, c.catalog, lo.Ternary(all != nil, all, snapshot), city, ref, categories, 3)
		parts = append(parts, render.Refusal(ref, city, alts))
	}
	parts = append(parts, render.Itinerary(it, prefs.WithDefaults(prefs.Derive(p), c.cfg)), render.Feasibility(fr))

	resp.Itinerary = &it
	resp.Feasibility = &fr
	resp.Message = joinParts(parts...)
	return nil
}

func intakeMessage(p model.Preferences, captured []string, vr model.ValidationResult) string {
	// required-field issues come first and are covered by the trailer
	var fix []string
	if len(vr.Issues) > len(vr.Missing) {
		fix = vr.Issues[len(vr.Missing):]
	}
	ask := ""
	if len(vr.Missing) > 0 {
		ask = render.Question(vr.Missing[0])
	}
	trailer := render.StillNeed(vr.Missing)
	if len(vr.Missing) == 0 {
		trailer = "Still need: fixes for the issues above"
	}
	var issues string
	if len(fix) > 0 {
		issues = "Please check:\n- " + strings.Join(fix, "\n- ")
	}
	return joinParts(render.Acknowledge(p, captured), issues, notes(vr.Warnings), ask, trailer)
}

func notes(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	return "Note: " + strings.Join(warnings, "\nNote: ")
}

func joinParts(parts ...string) string {
	parts = lo.FilterMap(parts, func(s string, _ int) (string, bool) {
		s = strings.TrimRight(s, "\n")
		return s, s != ""
	})
	return strings.Join(parts, "\n\n")
}
