package api

import (
	"context"
	"sort"
	"strings"
	"time"

	"wastewatch/internal/geo"
	"wastewatch/internal/models"
	"wastewatch/internal/storage"
)

// wastelandRegionScale grows the requested viewport slightly so sites just
// off-screen still show up while panning.
const wastelandRegionScale = 1.1

// Range is a half-open pagination window [From, To). A negative To means
// "everything from From onward", which the map screen uses to fetch the
// whole viewport.
type Range struct {
	From int
	To   int
}

// All is the unbounded range.
func All() Range { return Range{From: 0, To: -1} }

// Page is one pagination window plus the filtered total, so callers can
// compute whether more items remain.
type Page[T any] struct {
	Items       []T
	TotalLength int
	From        int
	To          int
}

// HasMore reports whether items remain past this window.
func (p Page[T]) HasMore() bool {
	return p.To >= 0 && p.TotalLength > p.To
}

// paginate slices [From, min(To, len)) out of items. There is no snapshot
// isolation between calls: a mutation landing between two windows of the
// same query can shift items across the boundary. Accepted limitation.
func paginate[T any](items []T, r Range) Page[T] {
	total := len(items)
	from := r.From
	if from < 0 {
		from = 0
	}
	if from > total {
		from = total
	}
	to := r.To
	if to < 0 || to > total {
		to = total
	}
	if to < from {
		to = from
	}
	return Page[T]{Items: items[from:to], TotalLength: total, From: r.From, To: r.To}
}

// GetOne resolves a reference. A ref to a missing id is a valid value that
// yields a not-found error, never a crash.
func (a *API) GetOne(ctx context.Context, ref models.Ref) (models.Entity, error) {
	return invoke(ctx, a, endpoint{name: "getOne", checkLogin: true},
		func(context.Context) (models.Entity, error) {
			if !ref.Kind.Valid() {
				return nil, models.NewInvalidDataError("unknown entity kind")
			}
			var entity models.Entity
			err := a.store.View(func(s *storage.Snapshot) error {
				var ok bool
				switch ref.Kind {
				case models.KindUser:
					var u *models.User
					u, ok = s.Users.Get(ref.ID)
					entity = u
				case models.KindEvent:
					var e *models.Event
					e, ok = s.Events.Get(ref.ID)
					entity = e
				case models.KindDumpster:
					var d *models.Dumpster
					d, ok = s.Dumpsters.Get(ref.ID)
					entity = d
				case models.KindWasteland:
					var w *models.Wasteland
					w, ok = s.Wastelands.Get(ref.ID)
					entity = w
				}
				if !ok {
					return models.NewNotFoundError(ref)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return entity, nil
		}, nil)
}

// UserFilter selects users whose email or username contains the phrase.
// Matching is case-sensitive.
type UserFilter struct {
	Phrase string
}

// GetUsers returns matching users sorted by rank score descending.
func (a *API) GetUsers(ctx context.Context, f UserFilter, r Range) (Page[*models.User], error) {
	return invoke(ctx, a, endpoint{name: "getUsers", checkLogin: true},
		func(context.Context) (Page[*models.User], error) {
			var matched []*models.User
			_ = a.store.View(func(s *storage.Snapshot) error {
				for _, u := range s.Users.Values() {
					if f.Phrase != "" &&
						!strings.Contains(u.Email, f.Phrase) &&
						!strings.Contains(u.Username, f.Phrase) {
						continue
					}
					matched = append(matched, u)
				}
				return nil
			})
			sort.SliceStable(matched, func(i, j int) bool {
				return matched[i].Rank() > matched[j].Rank()
			})
			return paginate(matched, r), nil
		}, nil)
}

// DumpsterFilter selects dumpsters by description phrase and optional
// viewport containment.
type DumpsterFilter struct {
	Phrase string
	Region *geo.Region
}

// GetDumpsters returns matching dumpsters in insertion order.
func (a *API) GetDumpsters(ctx context.Context, f DumpsterFilter, r Range) (Page[*models.Dumpster], error) {
	return invoke(ctx, a, endpoint{name: "getDumpsters", checkLogin: true},
		func(context.Context) (Page[*models.Dumpster], error) {
			var matched []*models.Dumpster
			_ = a.store.View(func(s *storage.Snapshot) error {
				for _, d := range s.Dumpsters.Values() {
					if f.Phrase != "" && !strings.Contains(d.Description, f.Phrase) {
						continue
					}
					if f.Region != nil && !f.Region.Contains(d.Place.Coords) {
						continue
					}
					matched = append(matched, d)
				}
				return nil
			})
			return paginate(matched, r), nil
		}, nil)
}

// WastelandFilter selects wastelands by place/description phrase, optional
// viewport containment (pre-scaled), and activity.
type WastelandFilter struct {
	Phrase     string
	Region     *geo.Region
	ActiveOnly bool
}

// GetWastelands returns matching wastelands in insertion order.
func (a *API) GetWastelands(ctx context.Context, f WastelandFilter, r Range) (Page[*models.Wasteland], error) {
	return invoke(ctx, a, endpoint{name: "getWastelands", checkLogin: true},
		func(context.Context) (Page[*models.Wasteland], error) {
			var region *geo.Region
			if f.Region != nil {
				scaled := f.Region.Scale(wastelandRegionScale)
				region = &scaled
			}
			var matched []*models.Wasteland
			_ = a.store.View(func(s *storage.Snapshot) error {
				for _, w := range s.Wastelands.Values() {
					if f.Phrase != "" &&
						!strings.Contains(w.Place.Address, f.Phrase) &&
						!strings.Contains(w.Description, f.Phrase) {
						continue
					}
					if region != nil && !region.Contains(w.Place.Coords) {
						continue
					}
					if f.ActiveOnly && !w.Active() {
						continue
					}
					matched = append(matched, w)
				}
				return nil
			})
			return paginate(matched, r), nil
		}, nil)
}

// DateRange is an inclusive [From, To] window over event date ranges.
type DateRange struct {
	From models.Time
	To   models.Time
}

// EventFilter selects events. ActiveOnly compares the end date against
// today at day precision: true keeps events ending today or later, false
// keeps events already over; nil skips the test.
type EventFilter struct {
	Phrase     string
	OnlyMine   bool
	Region     *geo.Region
	ActiveOnly *bool
	DateRange  *DateRange
}

// GetEvents returns matching events sorted by start date descending.
func (a *API) GetEvents(ctx context.Context, f EventFilter, r Range) (Page[*models.Event], error) {
	return invoke(ctx, a, endpoint{name: "getEvents", checkLogin: true},
		func(context.Context) (Page[*models.Event], error) {
			current := a.store.CurrentUser()
			now := time.Now()
			var matched []*models.Event
			_ = a.store.View(func(s *storage.Snapshot) error {
				for _, e := range s.Events.Values() {
					if f.OnlyMine && (current == nil || !e.IsMember(current.ID)) {
						continue
					}
					if f.Phrase != "" && !strings.Contains(e.Name, f.Phrase) {
						continue
					}
					if f.Region != nil && !f.Region.Contains(e.Place.Coords) {
						continue
					}
					if f.ActiveOnly != nil && e.ActiveOn(now) != *f.ActiveOnly {
						continue
					}
					if f.DateRange != nil &&
						(e.StartsAt.Before(f.DateRange.From.Time) ||
							e.EndsAt.After(f.DateRange.To.Time)) {
						continue
					}
					matched = append(matched, e)
				}
				return nil
			})
			sort.SliceStable(matched, func(i, j int) bool {
				return matched[i].StartsAt.After(matched[j].StartsAt.Time)
			})
			return paginate(matched, r), nil
		}, nil)
}
