package api

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"wastewatch/internal/models"
	"wastewatch/internal/storage"
)

// DumpsterCreate is the payload for reporting a dumpster. The reporter is
// stamped from the current user.
type DumpsterCreate struct {
	Place       models.Place
	Description string
	Photos      []string
}

// CreateDumpster stores a new dumpster and returns its reference.
func (a *API) CreateDumpster(ctx context.Context, in DumpsterCreate) (models.Ref, error) {
	return invoke(ctx, a, endpoint{name: "createDumpster", checkLogin: true, altersData: true},
		func(context.Context) (models.Ref, error) {
			current := a.store.CurrentUser()
			var ref models.Ref
			err := a.store.Update(func(s *storage.Snapshot) error {
				d := &models.Dumpster{
					ID:          s.Dumpsters.NextID(),
					Place:       in.Place,
					Description: in.Description,
					Photos:      in.Photos,
					ReportedBy:  current.Ref(),
				}
				s.Dumpsters.Put(d.ID, d)
				ref = d.Ref()
				return nil
			})
			return ref, err
		},
		func(models.Ref) []models.Notification {
			loc := in.Place.Coords
			return []models.Notification{models.CRUDNotification{
				Action:   models.ActionCreated,
				Kind:     models.KindDumpster,
				Location: &loc,
			}}
		})
}

// WastelandCreate is the payload for reporting a wasteland. Reporter and
// creation timestamp are stamped by the store.
type WastelandCreate struct {
	Place       models.Place
	Description string
	Photos      []string
}

// CreateWasteland stores a new wasteland and returns its reference.
func (a *API) CreateWasteland(ctx context.Context, in WastelandCreate) (models.Ref, error) {
	return invoke(ctx, a, endpoint{name: "createWasteland", checkLogin: true, altersData: true},
		func(context.Context) (models.Ref, error) {
			current := a.store.CurrentUser()
			var ref models.Ref
			err := a.store.Update(func(s *storage.Snapshot) error {
				w := &models.Wasteland{
					ID:           s.Wastelands.NextID(),
					Place:        in.Place,
					Description:  in.Description,
					Photos:       in.Photos,
					CreatedAt:    models.Now(),
					ReportedBy:   current.Ref(),
					ReporterName: current.Username,
				}
				s.Wastelands.Put(w.ID, w)
				ref = w.Ref()
				return nil
			})
			return ref, err
		},
		func(models.Ref) []models.Notification {
			loc := in.Place.Coords
			return []models.Notification{models.CRUDNotification{
				Action:   models.ActionCreated,
				Kind:     models.KindWasteland,
				Location: &loc,
			}}
		})
}

// EventCreate is the payload for scheduling an event. The creator always
// ends up in the member list as an admin.
type EventCreate struct {
	Name        string
	IconURL     string
	StartsAt    models.Time
	EndsAt      models.Time
	Place       models.Place
	Description string
	Members     *models.MemberList
	Wastelands  []models.Ref
}

// CreateEvent stores a new event and returns its reference.
func (a *API) CreateEvent(ctx context.Context, in EventCreate) (models.Ref, error) {
	return invoke(ctx, a, endpoint{name: "createEvent", checkLogin: true, altersData: true},
		func(context.Context) (models.Ref, error) {
			if in.EndsAt.Before(in.StartsAt.Time) {
				return models.Ref{}, models.NewInvalidDataError("event ends before it starts")
			}
			current := a.store.CurrentUser()
			members := in.Members
			if members == nil {
				members = models.NewMemberList()
			}
			members.Set(current.ID, models.MemberInfo{IsAdmin: true})
			var ref models.Ref
			err := a.store.Update(func(s *storage.Snapshot) error {
				e := &models.Event{
					ID:          s.Events.NextID(),
					Name:        in.Name,
					IconURL:     in.IconURL,
					StartsAt:    in.StartsAt,
					EndsAt:      in.EndsAt,
					Place:       in.Place,
					Description: in.Description,
					Members:     members,
					Wastelands:  in.Wastelands,
				}
				s.Events.Put(e.ID, e)
				ref = e.Ref()
				return nil
			})
			return ref, err
		},
		func(models.Ref) []models.Notification {
			loc := in.Place.Coords
			return []models.Notification{models.CRUDNotification{
				Action:   models.ActionCreated,
				Kind:     models.KindEvent,
				Location: &loc,
			}}
		})
}

// UserUpdate is a partial user patch; nil fields stay untouched.
type UserUpdate struct {
	Email    *string
	Username *string
	Password *string
	PhotoURL *string
}

// UpdateUser shallow-merges the patch into the caller's own record. A
// self-edit also refreshes the current-user pointer and session.
func (a *API) UpdateUser(ctx context.Context, id int, patch UserUpdate) (*models.User, error) {
	return invoke(ctx, a, endpoint{name: "updateUser", checkLogin: true, altersData: true},
		func(context.Context) (*models.User, error) {
			current := a.store.CurrentUser()
			var updated *models.User
			err := a.store.Update(func(s *storage.Snapshot) error {
				u, ok := s.Users.Get(id)
				if !ok {
					return models.NewInvalidDataError("user does not exist")
				}
				if current.ID != u.ID {
					return models.NewUnauthorizedError("users may only edit their own account")
				}
				if patch.Email != nil {
					u.Email = *patch.Email
				}
				if patch.Username != nil {
					u.Username = *patch.Username
				}
				if patch.Password != nil {
					hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
					if err != nil {
						return models.NewInvalidDataError("unusable password")
					}
					u.Password = string(hashed)
				}
				if patch.PhotoURL != nil {
					u.PhotoURL = *patch.PhotoURL
				}
				updated = u
				return nil
			})
			if err != nil {
				return nil, err
			}
			if err := a.store.SetCurrentUser(updated); err != nil {
				return nil, err
			}
			return updated, nil
		},
		func(u *models.User) []models.Notification {
			ref := u.Ref()
			return []models.Notification{models.CRUDNotification{
				Action:        models.ActionUpdated,
				Target:        &ref,
				UpdatedFields: patchFields(
					field{patch.Email != nil, "email"},
					field{patch.Username != nil, "userName"},
					field{patch.Password != nil, "password"},
					field{patch.PhotoURL != nil, "photoUrl"},
				),
			}}
		})
}

// DumpsterUpdate is a partial dumpster patch; nil fields stay untouched.
type DumpsterUpdate struct {
	Place       *models.Place
	Description *string
	Photos      *[]string
}

// UpdateDumpster shallow-merges the patch; only the reporter may edit.
func (a *API) UpdateDumpster(ctx context.Context, id int, patch DumpsterUpdate) (*models.Dumpster, error) {
	return invoke(ctx, a, endpoint{name: "updateDumpster", checkLogin: true, altersData: true},
		func(context.Context) (*models.Dumpster, error) {
			current := a.store.CurrentUser()
			var updated *models.Dumpster
			err := a.store.Update(func(s *storage.Snapshot) error {
				d, ok := s.Dumpsters.Get(id)
				if !ok {
					return models.NewInvalidDataError("dumpster does not exist")
				}
				if d.ReportedBy != current.Ref() {
					return models.NewUnauthorizedError("only the reporter may edit a dumpster")
				}
				if patch.Place != nil {
					d.Place = *patch.Place
				}
				if patch.Description != nil {
					d.Description = *patch.Description
				}
				if patch.Photos != nil {
					d.Photos = *patch.Photos
				}
				updated = d
				return nil
			})
			return updated, err
		},
		func(d *models.Dumpster) []models.Notification {
			ref := d.Ref()
			return []models.Notification{models.CRUDNotification{
				Action:        models.ActionUpdated,
				Target:        &ref,
				UpdatedFields: patchFields(
					field{patch.Place != nil, "place"},
					field{patch.Description != nil, "description"},
					field{patch.Photos != nil, "photos"},
				),
			}}
		})
}

// WastelandUpdate is a partial wasteland patch; nil fields stay untouched.
type WastelandUpdate struct {
	Place       *models.Place
	Description *string
	Photos      *[]string
}

// UpdateWasteland shallow-merges the patch; only the reporter may edit.
func (a *API) UpdateWasteland(ctx context.Context, id int, patch WastelandUpdate) (*models.Wasteland, error) {
	return invoke(ctx, a, endpoint{name: "updateWasteland", checkLogin: true, altersData: true},
		func(context.Context) (*models.Wasteland, error) {
			current := a.store.CurrentUser()
			var updated *models.Wasteland
			err := a.store.Update(func(s *storage.Snapshot) error {
				w, ok := s.Wastelands.Get(id)
				if !ok {
					return models.NewInvalidDataError("wasteland does not exist")
				}
				if w.ReportedBy != current.Ref() {
					return models.NewUnauthorizedError("only the reporter may edit a wasteland")
				}
				if patch.Place != nil {
					w.Place = *patch.Place
				}
				if patch.Description != nil {
					w.Description = *patch.Description
				}
				if patch.Photos != nil {
					w.Photos = *patch.Photos
				}
				updated = w
				return nil
			})
			return updated, err
		},
		func(w *models.Wasteland) []models.Notification {
			ref := w.Ref()
			return []models.Notification{models.CRUDNotification{
				Action:        models.ActionUpdated,
				Target:        &ref,
				UpdatedFields: patchFields(
					field{patch.Place != nil, "place"},
					field{patch.Description != nil, "description"},
					field{patch.Photos != nil, "photos"},
				),
			}}
		})
}

// EventUpdate is a partial event patch; nil fields stay untouched. The
// member list changes through the dedicated membership operations, not
// here.
type EventUpdate struct {
	Name        *string
	IconURL     *string
	StartsAt    *models.Time
	EndsAt      *models.Time
	Place       *models.Place
	Description *string
	Wastelands  *[]models.Ref
}

// UpdateEvent shallow-merges the patch. Only members holding admin rights
// may edit.
func (a *API) UpdateEvent(ctx context.Context, id int, patch EventUpdate) (*models.Event, error) {
	return invoke(ctx, a, endpoint{name: "updateEvent", checkLogin: true, altersData: true},
		func(context.Context) (*models.Event, error) {
			current := a.store.CurrentUser()
			var updated *models.Event
			err := a.store.Update(func(s *storage.Snapshot) error {
				e, ok := s.Events.Get(id)
				if !ok {
					return models.NewInvalidDataError("event does not exist")
				}
				if !e.IsAdmin(current.ID) {
					return models.NewUnauthorizedError("only event admins may edit an event")
				}
				starts, ends := e.StartsAt, e.EndsAt
				if patch.StartsAt != nil {
					starts = *patch.StartsAt
				}
				if patch.EndsAt != nil {
					ends = *patch.EndsAt
				}
				if ends.Before(starts.Time) {
					return models.NewInvalidDataError("event ends before it starts")
				}
				e.StartsAt, e.EndsAt = starts, ends
				if patch.Name != nil {
					e.Name = *patch.Name
				}
				if patch.IconURL != nil {
					e.IconURL = *patch.IconURL
				}
				if patch.Place != nil {
					e.Place = *patch.Place
				}
				if patch.Description != nil {
					e.Description = *patch.Description
				}
				if patch.Wastelands != nil {
					e.Wastelands = *patch.Wastelands
				}
				updated = e
				return nil
			})
			return updated, err
		},
		func(e *models.Event) []models.Notification {
			ref := e.Ref()
			return []models.Notification{models.CRUDNotification{
				Action:        models.ActionUpdated,
				Target:        &ref,
				UpdatedFields: patchFields(
					field{patch.Name != nil, "name"},
					field{patch.IconURL != nil, "iconUrl"},
					field{patch.StartsAt != nil, "startDate"},
					field{patch.EndsAt != nil, "endDate"},
					field{patch.Place != nil, "place"},
					field{patch.Description != nil, "description"},
					field{patch.Wastelands != nil, "wastelands"},
				),
			}}
		})
}

// DeleteOne removes the referenced record. Dumpsters and wastelands may be
// deleted by their reporter, events by any admin member; users are never
// deleted.
func (a *API) DeleteOne(ctx context.Context, ref models.Ref) (models.Ref, error) {
	return invoke(ctx, a, endpoint{name: "deleteOne", checkLogin: true, altersData: true},
		func(context.Context) (models.Ref, error) {
			current := a.store.CurrentUser()
			err := a.store.Update(func(s *storage.Snapshot) error {
				switch ref.Kind {
				case models.KindDumpster:
					d, ok := s.Dumpsters.Get(ref.ID)
					if !ok {
						return models.NewInvalidDataError("dumpster does not exist")
					}
					if d.ReportedBy != current.Ref() {
						return models.NewUnauthorizedError("only the reporter may delete a dumpster")
					}
					s.Dumpsters.Delete(ref.ID)
				case models.KindWasteland:
					w, ok := s.Wastelands.Get(ref.ID)
					if !ok {
						return models.NewInvalidDataError("wasteland does not exist")
					}
					if w.ReportedBy != current.Ref() {
						return models.NewUnauthorizedError("only the reporter may delete a wasteland")
					}
					s.Wastelands.Delete(ref.ID)
				case models.KindEvent:
					e, ok := s.Events.Get(ref.ID)
					if !ok {
						return models.NewInvalidDataError("event does not exist")
					}
					if !e.IsAdmin(current.ID) {
						return models.NewUnauthorizedError("only event admins may delete an event")
					}
					s.Events.Delete(ref.ID)
				default:
					return models.NewInvalidDataError("kind does not support deletion")
				}
				return nil
			})
			return ref, err
		},
		func(deleted models.Ref) []models.Notification {
			return []models.Notification{models.CRUDNotification{
				Action: models.ActionDeleted,
				Target: &deleted,
			}}
		})
}

// ClearWasteland attaches (or overwrites) the after-cleaning record. Any
// logged-in user may report a cleanup, not just the reporter.
func (a *API) ClearWasteland(ctx context.Context, id int, data models.CleaningData) (*models.Wasteland, error) {
	return invoke(ctx, a, endpoint{name: "clearWasteland", checkLogin: true, altersData: true},
		func(context.Context) (*models.Wasteland, error) {
			var cleared *models.Wasteland
			err := a.store.Update(func(s *storage.Snapshot) error {
				w, ok := s.Wastelands.Get(id)
				if !ok {
					return models.NewInvalidDataError("wasteland does not exist")
				}
				d := data
				w.AfterCleaning = &d
				cleared = w
				return nil
			})
			return cleared, err
		},
		func(w *models.Wasteland) []models.Notification {
			ref := w.Ref()
			return []models.Notification{models.CRUDNotification{
				Action:        models.ActionUpdated,
				Target:        &ref,
				UpdatedFields: []string{"afterCleaningData"},
			}}
		})
}

// field pairs a patch member's json name with whether the patch set it.
type field struct {
	set  bool
	name string
}

// patchFields collects the json names of the fields a patch actually set.
func patchFields(fs ...field) []string {
	var names []string
	for _, f := range fs {
		if f.set {
			names = append(names, f.name)
		}
	}
	return names
}
