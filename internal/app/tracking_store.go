package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/example/shiptrack/internal/core/events"
	"github.com/example/shiptrack/internal/core/tracking"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// EventHandler consumes domain events after they are committed.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev events.Event)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, ev events.Event)

// HandleEvent calls f(ctx, ev).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, ev events.Event) { f(ctx, ev) }

// Planner inspects the current snapshot and returns the actions to apply.
// Returning an error aborts the update with no state change.
type Planner func(s tracking.State) ([]tracking.Action, error)

// TrackingStore owns the current tracking snapshot. Updates are atomic:
// the plan is evaluated, every action is reduced, and the result is
// persisted under the shipments key before the snapshot is swapped. Events
// are published to subscribers after the swap.
type TrackingStore struct {
	mu    sync.Mutex
	state tracking.State
	repo  secondary.StateRepository

	handlersMu sync.RWMutex
	handlers   []EventHandler

	logger *zap.Logger
}

// NewTrackingStore creates an empty store backed by repo. Call Load to
// restore the persisted snapshot.
func NewTrackingStore(repo secondary.StateRepository, logger *zap.Logger) *TrackingStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingStore{repo: repo, logger: logger}
}

// Load replaces the in-memory snapshot with the persisted one. A missing
// key leaves the store empty.
func (s *TrackingStore) Load(ctx context.Context) error {
	data, found, err := s.repo.Load(ctx, secondary.StateKeyShipments)
	if err != nil {
		return err
	}

	var state tracking.State
	if found {
		if err := json.Unmarshal(data, &state); err != nil {
			return fmt.Errorf("failed to decode shipments: %w", err)
		}
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.logger.Debug("tracking state loaded", zap.Int("shipments", len(state.Shipments)))
	return nil
}

// Snapshot returns the current state. The reducer never edits a state in
// place, so the returned value stays valid while the store moves on.
func (s *TrackingStore) Snapshot() tracking.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers h to receive every committed event.
func (s *TrackingStore) Subscribe(h EventHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Dispatch applies actions in order as one atomic update.
func (s *TrackingStore) Dispatch(ctx context.Context, actions ...tracking.Action) ([]events.Event, error) {
	return s.Update(ctx, func(tracking.State) ([]tracking.Action, error) {
		return actions, nil
	})
}

// Update runs plan against the current snapshot and applies the actions it
// returns as one atomic update. If planning, reducing or persisting fails,
// the store keeps its last valid state.
func (s *TrackingStore) Update(ctx context.Context, plan Planner) ([]events.Event, error) {
	s.mu.Lock()

	actions, err := plan(s.state)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	next := s.state
	var committed []events.Event
	for _, a := range actions {
		var evs []events.Event
		next, evs, err = tracking.Reduce(next, a)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		committed = append(committed, evs...)
	}

	if len(committed) == 0 {
		s.mu.Unlock()
		return nil, nil
	}

	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to persist tracking state", zap.Error(err))
		return nil, err
	}
	s.state = next
	s.mu.Unlock()

	s.publish(ctx, committed)
	return committed, nil
}

func (s *TrackingStore) persist(ctx context.Context, state tracking.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode shipments: %w", err)
	}
	return s.repo.Save(ctx, secondary.StateKeyShipments, data)
}

func (s *TrackingStore) publish(ctx context.Context, evs []events.Event) {
	s.handlersMu.RLock()
	handlers := make([]EventHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.handlersMu.RUnlock()

	for _, ev := range evs {
		s.logger.Info("tracking event", zap.String("event", ev.EventType()))
		for _, h := range handlers {
			h.HandleEvent(ctx, ev)
		}
	}
}
