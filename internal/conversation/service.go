package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rcliao/trip-planner/internal/logging"
	"github.com/rcliao/trip-planner/internal/model"
	"github.com/rcliao/trip-planner/internal/prefs"
	"github.com/rcliao/trip-planner/internal/store"
)

// Service owns trip sessions. Turns on the same trip run one at a time;
// different trips proceed independently.
type Service struct {
	ctrl     *Controller
	store    store.Store
	sessions *lru.Cache[string, model.Session]
	locks    tripLocks
	tripsDir string
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTripsDir writes a trip file for every trip that reaches confirmation.
func WithTripsDir(dir string) ServiceOption {
	return func(s *Service) { s.tripsDir = dir }
}

// WithServiceLogger sets the logger.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service keeping up to cacheSize sessions in memory.
func NewService(ctrl *Controller, st store.Store, cacheSize int, opts ...ServiceOption) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[string, model.Session](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	s := &Service{ctrl: ctrl, store: st, sessions: cache}
	for _, o := range opts {
		o(s)
	}
	s.logger = logging.Component(s.logger, "service")
	return s, nil
}

// Start opens a new trip and returns its greeting.
func (s *Service) Start(ctx context.Context) (Response, error) {
	tripID := store.NewTripID()
	sess, err := s.store.SaveSession(ctx, store.SaveSessionParams{TripID: tripID, Phase: model.PhaseGreeting})
	if err != nil {
		return Response{}, fmt.Errorf("start trip: %w", err)
	}
	s.sessions.Add(tripID, *sess)

	resp := s.ctrl.Greet(tripID)
	if err := s.record(ctx, tripID, "assistant", resp.Message, resp.Phase); err != nil {
		return Response{}, err
	}
	s.logger.InfoContext(ctx, "trip started", "trip_id", tripID)
	return resp, nil
}

// Turn applies one user utterance to a trip.
func (s *Service) Turn(ctx context.Context, tripID, text string) (Response, error) {
	unlock := s.locks.lock(tripID)
	defer unlock()

	sess, err := s.Session(ctx, tripID)
	if err != nil {
		return Response{}, err
	}
	if err := s.record(ctx, tripID, "user", text, sess.Phase); err != nil {
		return Response{}, err
	}

	next, resp := s.ctrl.Turn(ctx, sess, text)
	changed := next.Phase != sess.Phase || len(resp.Captured) > 0
	if !resp.Transient && changed {
		saved, err := s.store.SaveSession(ctx, store.SaveSessionParams{
			TripID:      tripID,
			Phase:       next.Phase,
			Preferences: next.Preferences,
		})
		if err != nil {
			return Response{}, fmt.Errorf("save session: %w", err)
		}
		next = *saved
	}

	if resp.Itinerary != nil {
		if err := s.store.SaveItinerary(ctx, *resp.Itinerary, *resp.Feasibility); err != nil {
			return Response{}, fmt.Errorf("save itinerary: %w", err)
		}
	}
	if s.tripsDir != "" && changed && resp.Validation != nil && resp.Validation.Valid {
		if path, err := store.WriteTripFile(s.tripsDir, prefs.Derive(next.Preferences)); err != nil {
			s.logger.ErrorContext(ctx, "write trip file failed", "trip_id", tripID, "error", err)
		} else {
			s.logger.DebugContext(ctx, "trip file written", "trip_id", tripID, "path", path)
		}
	}

	if err := s.record(ctx, tripID, "assistant", resp.Message, resp.Phase); err != nil {
		return Response{}, err
	}
	s.sessions.Add(tripID, next)
	return resp, nil
}

// Session returns the current state of a trip.
func (s *Service) Session(ctx context.Context, tripID string) (model.Session, error) {
	if sess, ok := s.sessions.Get(tripID); ok {
		return sess, nil
	}
	got, err := s.store.GetSession(ctx, store.GetSessionParams{TripID: tripID})
	if err != nil {
		return model.Session{}, err
	}
	s.sessions.Add(tripID, got[0])
	return got[0], nil
}

// Forget drops a trip from the in-memory cache.
func (s *Service) Forget(tripID string) {
	s.sessions.Remove(tripID)
}

func (s *Service) record(ctx context.Context, tripID, role, content string, phase model.Phase) error {
	_, err := s.store.AppendMessage(ctx, model.Message{TripID: tripID, Role: role, Content: content, Phase: phase})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// tripLocks hands out one mutex per trip and drops it when unused.
type tripLocks struct {
	mu sync.Mutex
	m  map[string]*tripLock
}

type tripLock struct {
	sync.Mutex
	refs int
}

func (l *tripLocks) lock(tripID string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = map[string]*tripLock{}
	}
	tl, ok := l.m[tripID]
	if !ok {
		tl = &tripLock{}
		l.m[tripID] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.Lock()
	return func() {
		tl.Unlock()
		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.m, tripID)
		}
		l.mu.Unlock()
	}
}
