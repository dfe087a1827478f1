package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"wastewatch/internal/models"
	"wastewatch/internal/observability"
)

// Options configures Open.
type Options struct {
	// SessionSecret signs the persisted current-user token.
	SessionSecret string
	// Seed builds the fixture snapshot used when no blob exists yet. Nil
	// seeds an empty snapshot.
	Seed func() *Snapshot
	// Logger defaults to the global structured logger.
	Logger *slog.Logger
}

// Store owns the in-memory snapshot and its durable blob. It is the sole
// owner of entity lifetime; callers mutate entities only through View and
// Update, and persistence happens only through Flush.
type Store struct {
	mu       sync.RWMutex
	blob     Blob
	snap     *Snapshot
	current  *models.User
	sessions *sessionCodec
	log      *slog.Logger
}

// Open loads the persisted snapshot, seeding and persisting fixtures when
// nothing was stored yet. A corrupt blob on a later run fails loudly;
// operating on partially-decoded state is worse than surfacing corruption.
func Open(ctx context.Context, blob Blob, opts Options) (*Store, error) {
	s := &Store{
		blob:     blob,
		sessions: newSessionCodec(opts.SessionSecret),
		log:      opts.Logger,
	}
	if s.log == nil {
		s.log = observability.GlobalLogger.Logger
	}

	data, err := blob.Load(ctx)
	switch {
	case errors.Is(err, ErrNoBlob):
		if opts.Seed != nil {
			s.snap = opts.Seed()
		} else {
			s.snap = NewSnapshot()
		}
		s.log.Info("no persisted blob, seeding fixtures",
			slog.Int("users", s.snap.Users.Len()),
			slog.Int("wastelands", s.snap.Wastelands.Len()),
		)
		if err := s.Flush(ctx); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		snap := NewSnapshot()
		if err := json.Unmarshal(data, snap); err != nil {
			return nil, fmt.Errorf("storage: corrupt blob: %w", err)
		}
		s.snap = snap
	}

	s.restoreSession()
	return s, nil
}

// restoreSession turns the persisted token back into the current-user
// pointer. A stale or invalid token restores to logged-out.
func (s *Store) restoreSession() {
	if s.snap.Session == "" {
		return
	}
	id, err := s.sessions.Parse(s.snap.Session)
	if err != nil {
		s.log.Warn("discarding invalid persisted session", slog.String("error", err.Error()))
		s.snap.Session = ""
		return
	}
	user, ok := s.snap.Users.Get(id)
	if !ok {
		s.log.Warn("persisted session points at unknown user", slog.Int("user_id", id))
		s.snap.Session = ""
		return
	}
	s.current = user
}

// View runs fn with read access to the snapshot.
func (s *Store) View(fn func(*Snapshot) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.snap)
}

// Update runs fn with write access to the snapshot. It does not persist;
// the endpoint middleware decides when to Flush.
func (s *Store) Update(fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.snap)
}

// Flush serializes the whole snapshot and writes it to the blob backend.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	data, err := json.Marshal(s.snap)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("storage: encode snapshot: %w", err)
	}
	if err := s.blob.Save(ctx, data); err != nil {
		return err
	}
	observability.SnapshotFlushes.Inc()
	observability.SnapshotBytes.Set(float64(len(data)))
	return nil
}

// CurrentUser returns the logged-in user, or nil. Synchronous and
// non-blocking.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrentUser points the session at u, minting a persisted token, or
// clears it when u is nil.
func (s *Store) SetCurrentUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.current = nil
		s.snap.Session = ""
		return nil
	}
	token, err := s.sessions.Mint(u.ID)
	if err != nil {
		return err
	}
	s.current = u
	s.snap.Session = token
	return nil
}

// Close releases the blob backend.
func (s *Store) Close() error {
	return s.blob.Close()
}
