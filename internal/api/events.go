package api

import (
	"context"

	"wastewatch/internal/models"
	"wastewatch/internal/storage"
)

// JoinEvent adds the caller to an event's member list as a regular member.
func (a *API) JoinEvent(ctx context.Context, eventID int) (*models.Event, error) {
	return invoke(ctx, a, endpoint{name: "joinEvent", checkLogin: true, altersData: true},
		func(context.Context) (*models.Event, error) {
			current := a.store.CurrentUser()
			var joined *models.Event
			err := a.store.Update(func(s *storage.Snapshot) error {
				e, ok := s.Events.Get(eventID)
				if !ok {
					return models.NewInvalidDataError("event does not exist")
				}
				if !e.IsMember(current.ID) {
					e.Members.Set(current.ID, models.MemberInfo{IsAdmin: false})
				}
				joined = e
				return nil
			})
			return joined, err
		}, nil)
}

// JoinEventByInvitation consumes a pending invitation: it is removed from
// the caller's list and its AsAdmin flag carries over into the membership.
func (a *API) JoinEventByInvitation(ctx context.Context, inv models.Invitation) (*models.Event, error) {
	return invoke(ctx, a, endpoint{name: "joinEventByInvitation", checkLogin: true, altersData: true},
		func(context.Context) (*models.Event, error) {
			current := a.store.CurrentUser()
			var joined *models.Event
			err := a.store.Update(func(s *storage.Snapshot) error {
				e, ok := s.Events.Get(inv.Event.ID)
				if !ok {
					return models.NewInvalidDataError("event does not exist")
				}
				s.RemoveInvitation(current.ID, inv.Event.ID)
				e.Members.Set(current.ID, models.MemberInfo{IsAdmin: inv.AsAdmin})
				joined = e
				return nil
			})
			return joined, err
		}, nil)
}

// LeaveEvent removes the caller from an event's member list. There is no
// admin rebalancing: the last admin may leave and the event keeps going
// without one.
func (a *API) LeaveEvent(ctx context.Context, eventID int) (*models.Event, error) {
	return invoke(ctx, a, endpoint{name: "leaveEvent", checkLogin: true, altersData: true},
		func(context.Context) (*models.Event, error) {
			current := a.store.CurrentUser()
			var left *models.Event
			err := a.store.Update(func(s *storage.Snapshot) error {
				e, ok := s.Events.Get(eventID)
				if !ok {
					return models.NewInvalidDataError("event does not exist")
				}
				if !e.Members.Delete(current.ID) {
					return models.NewInvalidDataError("not a member of this event")
				}
				left = e
				return nil
			})
			return left, err
		}, nil)
}

// InvitationRequest names one recipient of SendEventInvitations.
type InvitationRequest struct {
	User    models.Ref
	AsAdmin bool
}

// SendEventInvitations invites users to an event. The operation is
// idempotent per recipient: anyone already holding a pending invitation
// for the event is skipped. It returns the invitations actually created.
func (a *API) SendEventInvitations(ctx context.Context, eventID int, recipients []InvitationRequest) ([]models.Invitation, error) {
	return invoke(ctx, a, endpoint{name: "sendEventInvitations", checkLogin: true, altersData: true},
		func(context.Context) ([]models.Invitation, error) {
			var sent []models.Invitation
			err := a.store.Update(func(s *storage.Snapshot) error {
				e, ok := s.Events.Get(eventID)
				if !ok {
					return models.NewInvalidDataError("event does not exist")
				}
				for _, r := range recipients {
					inv := models.Invitation{
						Event:     e.Ref(),
						EventName: e.Name,
						User:      r.User,
						AsAdmin:   r.AsAdmin,
					}
					if s.AddInvitation(inv) {
						sent = append(sent, inv)
					}
				}
				return nil
			})
			return sent, err
		},
		func(sent []models.Invitation) []models.Notification {
			out := make([]models.Notification, 0, len(sent))
			for _, inv := range sent {
				out = append(out, models.InvitationNotification{Invitation: inv})
			}
			return out
		})
}

// RemoveInvitation declines a pending invitation of the caller.
func (a *API) RemoveInvitation(ctx context.Context, inv models.Invitation) (models.Ref, error) {
	return invoke(ctx, a, endpoint{name: "removeInvitation", checkLogin: true, altersData: true},
		func(context.Context) (models.Ref, error) {
			current := a.store.CurrentUser()
			err := a.store.Update(func(s *storage.Snapshot) error {
				if !s.RemoveInvitation(current.ID, inv.Event.ID) {
					return models.NewInvalidDataError("no such invitation")
				}
				return nil
			})
			return inv.Event, err
		}, nil)
}

// GetMyInvitations lists the caller's pending invitations.
func (a *API) GetMyInvitations(ctx context.Context) ([]models.Invitation, error) {
	return invoke(ctx, a, endpoint{name: "getMyInvitations", checkLogin: true},
		func(context.Context) ([]models.Invitation, error) {
			current := a.store.CurrentUser()
			var pending []models.Invitation
			_ = a.store.View(func(s *storage.Snapshot) error {
				list, _ := s.Invitations.Get(current.ID)
				pending = append(pending, list...)
				return nil
			})
			return pending, nil
		}, nil)
}

// EventMember is one member row with denormalized display data.
type EventMember struct {
	User     models.Ref
	Username string
	PhotoURL string
	IsAdmin  bool
}

// GetEventMembers lists an event's members in insertion order.
func (a *API) GetEventMembers(ctx context.Context, eventID int) ([]EventMember, error) {
	return invoke(ctx, a, endpoint{name: "getEventMembers", checkLogin: true},
		func(context.Context) ([]EventMember, error) {
			var members []EventMember
			err := a.store.View(func(s *storage.Snapshot) error {
				e, ok := s.Events.Get(eventID)
				if !ok {
					return models.NewInvalidDataError("event does not exist")
				}
				for _, id := range e.Members.IDs() {
					info, _ := e.Members.Get(id)
					m := EventMember{
						User:    models.Ref{ID: id, Kind: models.KindUser},
						IsAdmin: info.IsAdmin,
					}
					if u, ok := s.Users.Get(id); ok {
						m.Username = u.Username
						m.PhotoURL = u.PhotoURL
					}
					members = append(members, m)
				}
				return nil
			})
			return members, err
		}, nil)
}

// GetEventWastelands resolves an event's targeted wastelands. Broken
// references are skipped, not errors.
func (a *API) GetEventWastelands(ctx context.Context, eventID int) ([]*models.Wasteland, error) {
	return invoke(ctx, a, endpoint{name: "getEventWastelands", checkLogin: true},
		func(context.Context) ([]*models.Wasteland, error) {
			var sites []*models.Wasteland
			err := a.store.View(func(s *storage.Snapshot) error {
				e, ok := s.Events.Get(eventID)
				if !ok {
					return models.NewInvalidDataError("event does not exist")
				}
				for _, ref := range e.Wastelands {
					if w, ok := s.Wastelands.Get(ref.ID); ok {
						sites = append(sites, w)
					}
				}
				return nil
			})
			return sites, err
		}, nil)
}

// UpdateMemberType flips a member's admin flag. Fails when the event or
// the membership is missing.
func (a *API) UpdateMemberType(ctx context.Context, eventID int, user models.Ref, isAdmin bool) (*models.Event, error) {
	return invoke(ctx, a, endpoint{name: "updateMemberType", checkLogin: true, altersData: true},
		func(context.Context) (*models.Event, error) {
			var updated *models.Event
			err := a.store.Update(func(s *storage.Snapshot) error {
				e, ok := s.Events.Get(eventID)
				if !ok {
					return models.NewInvalidDataError("event does not exist")
				}
				if _, ok := e.Members.Get(user.ID); !ok {
					return models.NewInvalidDataError("user is not a member of this event")
				}
				e.Members.Set(user.ID, models.MemberInfo{IsAdmin: isAdmin})
				updated = e
				return nil
			})
			return updated, err
		}, nil)
}

// SendEventMessage appends a chat message to an event the caller belongs
// to.
func (a *API) SendEventMessage(ctx context.Context, eventID int, content string) (models.Message, error) {
	return invoke(ctx, a, endpoint{name: "sendEventMessage", checkLogin: true, altersData: true},
		func(context.Context) (models.Message, error) {
			current := a.store.CurrentUser()
			var msg models.Message
			err := a.store.Update(func(s *storage.Snapshot) error {
				e, ok := s.Events.Get(eventID)
				if !ok {
					return models.NewInvalidDataError("event does not exist")
				}
				if !e.IsMember(current.ID) {
					return models.NewUnauthorizedError("only members may post in an event")
				}
				msg = models.Message{
					Event:          e.Ref(),
					Content:        content,
					SentAt:         models.Now(),
					Sender:         current.Ref(),
					SenderName:     current.Username,
					SenderPhotoURL: current.PhotoURL,
				}
				s.AppendMessage(msg)
				return nil
			})
			return msg, err
		},
		func(msg models.Message) []models.Notification {
			return []models.Notification{models.MessageNotification{Message: msg}}
		})
}

// GetEventMessages pages through an event's chat log, oldest first.
func (a *API) GetEventMessages(ctx context.Context, eventID int, r Range) (Page[models.Message], error) {
	return invoke(ctx, a, endpoint{name: "getEventMessages", checkLogin: true},
		func(context.Context) (Page[models.Message], error) {
			var log []models.Message
			err := a.store.View(func(s *storage.Snapshot) error {
				if _, ok := s.Events.Get(eventID); !ok {
					return models.NewInvalidDataError("event does not exist")
				}
				log, _ = s.Messages.Get(eventID)
				return nil
			})
			if err != nil {
				return Page[models.Message]{}, err
			}
			return paginate(log, r), nil
		}, nil)
}
