// Package api exposes the public operation surface of the simulated
// backend. Every operation passes through the endpoint middleware: login
// gate, simulated latency, post-success persistence flush and notification
// emission.
package api

import (
	"context"
	"time"

	"wastewatch/internal/models"
	"wastewatch/internal/notifications"
	"wastewatch/internal/observability"
	"wastewatch/internal/storage"
)

// Options configures New.
type Options struct {
	// MaxLatency bounds the uniformly-random simulated network delay
	// injected before each operation. Zero disables the delay.
	MaxLatency time.Duration
	// ProximityMeters is the nearby threshold for location-filtered
	// notifications; zero picks the engine default.
	ProximityMeters float64
}

// API is the application context owning the store and the fan-out engine.
// It is constructed once at startup and passed to whatever owns the UI
// layer; there is no hidden singleton.
type API struct {
	store      *storage.Store
	listeners  *notifications.Manager
	maxLatency time.Duration
	oplog      *observability.OperationLogger
}

// New builds the API around an opened store.
func New(store *storage.Store, opts Options) *API {
	a := &API{
		store:      store,
		maxLatency: opts.MaxLatency,
		oplog:      observability.NewOperationLogger(),
	}
	a.listeners = notifications.NewManager(managerBackend{a}, opts.ProximityMeters)
	return a
}

// Listeners exposes the fan-out engine for subscriber registration.
func (a *API) Listeners() *notifications.Manager {
	return a.listeners
}

// GetCurrentUser returns the logged-in user, or nil. Synchronous and
// non-blocking; the only operation outside the endpoint middleware.
func (a *API) GetCurrentUser() *models.User {
	return a.store.CurrentUser()
}

// managerBackend adapts the API for the fan-out engine. EventByID reads
// the store at dispatch time, so listeners notified later in one dispatch
// can observe a slightly newer state than earlier ones.
type managerBackend struct {
	api *API
}

func (b managerBackend) CurrentUser() *models.User {
	return b.api.store.CurrentUser()
}

func (b managerBackend) EventByID(ctx context.Context, id int) (*models.Event, error) {
	var event *models.Event
	err := b.api.store.View(func(s *storage.Snapshot) error {
		e, ok := s.Events.Get(id)
		if !ok {
			return models.NewNotFoundError(models.Ref{ID: id, Kind: models.KindEvent})
		}
		event = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}
