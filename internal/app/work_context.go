package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/example/shiptrack/internal/core/tracking"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// workContext is where the operator is in the scan flow: a shipment staged
// by resolution but not yet confirmed, and the shipment currently open
// (the ?code= of a routing link). Persisted under the created-shipment key.
type workContext struct {
	Staged      *tracking.Shipment `json:"staged,omitempty"`
	CurrentCode string             `json:"currentCode,omitempty"`
}

type workContextStore struct {
	mu   sync.Mutex
	repo secondary.StateRepository
}

func newWorkContextStore(repo secondary.StateRepository) *workContextStore {
	return &workContextStore{repo: repo}
}

func (w *workContextStore) load(ctx context.Context) (workContext, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var wc workContext
	data, found, err := w.repo.Load(ctx, secondary.StateKeyCreatedShipment)
	if err != nil {
		return wc, err
	}
	if !found {
		return wc, nil
	}
	if err := json.Unmarshal(data, &wc); err != nil {
		return wc, fmt.Errorf("failed to decode work context: %w", err)
	}
	return wc, nil
}

func (w *workContextStore) save(ctx context.Context, wc workContext) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if wc.Staged == nil && wc.CurrentCode == "" {
		return w.repo.Delete(ctx, secondary.StateKeyCreatedShipment)
	}
	data, err := json.Marshal(wc)
	if err != nil {
		return fmt.Errorf("failed to encode work context: %w", err)
	}
	return w.repo.Save(ctx, secondary.StateKeyCreatedShipment, data)
}
