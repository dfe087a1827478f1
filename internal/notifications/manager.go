// Package notifications implements the fan-out engine routing mutation
// events to interested subscribers.
package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"wastewatch/internal/geo"
	"wastewatch/internal/models"
	"wastewatch/internal/observability"
)

// DefaultProximityMeters is the nearby threshold for location-filtered
// CRUD notifications.
const DefaultProximityMeters = 10000.0

// Registry misuse is a programming error and fails loudly instead of
// silently no-opping.
var (
	ErrAlreadyRegistered = errors.New("notifications: listener already registered")
	ErrNotRegistered     = errors.New("notifications: listener not registered")
)

// Callback receives a matched notification.
type Callback func(models.Notification)

// Listener is a registered subscriber handle. Identity is the handle
// itself: registering the same handle twice is an error.
type Listener struct {
	cb Callback
}

// NewListener wraps a callback into a registrable handle.
func NewListener(cb Callback) *Listener {
	return &Listener{cb: cb}
}

func (l *Listener) invoke(n models.Notification) {
	observability.ListenerInvocations.Inc()
	l.cb(n)
}

// Filter selects which notifications reach a listener. Both conditions
// are checked independently for CRUD notifications; a listener matching
// both is invoked twice. Message and invitation notifications ignore the
// filter entirely.
type Filter struct {
	Location     *geo.Coordinates
	ObservedRefs []models.Ref
}

// Backend is what the manager needs from the surrounding application.
type Backend interface {
	// CurrentUser returns the logged-in user, or nil.
	CurrentUser() *models.User
	// EventByID resolves an event reference through the query layer.
	EventByID(ctx context.Context, id int) (*models.Event, error)
}

// Manager is the single dispatch point for every mutation, message and
// invitation event.
type Manager struct {
	mu        sync.RWMutex
	listeners map[*Listener]Filter

	backend   Backend
	proximity float64
	log       *slog.Logger
}

// NewManager builds a Manager. proximityMeters <= 0 falls back to
// DefaultProximityMeters.
func NewManager(backend Backend, proximityMeters float64) *Manager {
	if proximityMeters <= 0 {
		proximityMeters = DefaultProximityMeters
	}
	return &Manager{
		listeners: make(map[*Listener]Filter),
		backend:   backend,
		proximity: proximityMeters,
		log:       observability.GlobalLogger.Logger,
	}
}

// Register adds a listener with its filter.
func (m *Manager) Register(l *Listener, f Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listeners[l]; ok {
		return ErrAlreadyRegistered
	}
	m.listeners[l] = f
	return nil
}

// UpdateFilter replaces a registered listener's filter.
func (m *Manager) UpdateFilter(l *Listener, f Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listeners[l]; !ok {
		return ErrNotRegistered
	}
	m.listeners[l] = f
	return nil
}

// Unregister removes a listener.
func (m *Manager) Unregister(l *Listener) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listeners[l]; !ok {
		return ErrNotRegistered
	}
	delete(m.listeners, l)
	return nil
}

type registration struct {
	listener *Listener
	filter   Filter
}

func (m *Manager) snapshot() []registration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	regs := make([]registration, 0, len(m.listeners))
	for l, f := range m.listeners {
		regs = append(regs, registration{listener: l, filter: f})
	}
	return regs
}

// Dispatch routes one notification to matching listeners. Delivery is
// synchronous; callbacks run on the caller's goroutine.
func (m *Manager) Dispatch(ctx context.Context, n models.Notification) {
	current := m.backend.CurrentUser()
	if current == nil {
		observability.NotificationsDispatched.WithLabelValues(kindLabel(n), "dropped_no_user").Inc()
		return
	}
	// no self-notification: acting user never hears its own mutation
	if n.Author() == current.Ref() {
		observability.NotificationsDispatched.WithLabelValues(kindLabel(n), "dropped_self").Inc()
		return
	}

	switch t := n.(type) {
	case models.CRUDNotification:
		m.dispatchCRUD(t)
	case models.MessageNotification:
		m.dispatchMessage(ctx, t, current)
	case models.InvitationNotification:
		m.dispatchInvitation(t, current)
	default:
		m.log.Warn("unknown notification shape dropped")
		return
	}
	observability.NotificationsDispatched.WithLabelValues(kindLabel(n), "delivered").Inc()
}

// dispatchCRUD checks each listener's location and observed-ref filters
// independently. A listener satisfying both conditions is invoked once per
// match.
func (m *Manager) dispatchCRUD(n models.CRUDNotification) {
	for _, reg := range m.snapshot() {
		f := reg.filter
		if f.Location != nil && n.Location != nil &&
			geo.Distance(*f.Location, *n.Location) <= m.proximity {
			reg.listener.invoke(n)
		}
		if len(f.ObservedRefs) > 0 && n.Target != nil {
			for _, ref := range f.ObservedRefs {
				if ref == *n.Target {
					reg.listener.invoke(n)
					break
				}
			}
		}
	}
}

// dispatchMessage resolves the target event mid-dispatch; a failed
// resolve aborts delivery for every listener.
func (m *Manager) dispatchMessage(ctx context.Context, n models.MessageNotification, current *models.User) {
	event, err := m.backend.EventByID(ctx, n.Message.Event.ID)
	if err != nil {
		m.log.Warn("message notification dropped, event lookup failed",
			slog.Int("event_id", n.Message.Event.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	if !event.IsMember(current.ID) {
		return
	}
	for _, reg := range m.snapshot() {
		reg.listener.invoke(n)
	}
}

func (m *Manager) dispatchInvitation(n models.InvitationNotification, current *models.User) {
	if n.Invitation.User.ID != current.ID {
		return
	}
	for _, reg := range m.snapshot() {
		reg.listener.invoke(n)
	}
}

func kindLabel(n models.Notification) string {
	switch n.(type) {
	case models.CRUDNotification:
		return "crud"
	case models.MessageNotification:
		return "message"
	case models.InvitationNotification:
		return "invitation"
	default:
		return "unknown"
	}
}
