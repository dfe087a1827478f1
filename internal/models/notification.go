package models

import "wastewatch/internal/geo"

// Action discriminates CRUD notifications.
type Action string

const (
	// ActionCreated announces a freshly reported record.
	ActionCreated Action = "created"
	// ActionUpdated announces an in-place mutation.
	ActionUpdated Action = "updated"
	// ActionDeleted announces a removal.
	ActionDeleted Action = "deleted"
)

// Notification is the ephemeral event handed to the fan-out engine after a
// successful mutation. It is never persisted. The concrete types form a
// closed tagged union.
type Notification interface {
	// Author is the reference of the acting user, stamped by the endpoint
	// middleware before dispatch.
	Author() Ref
	// WithAuthor returns a copy carrying the given author.
	WithAuthor(Ref) Notification
}

// CRUDNotification announces a create, update or delete of an addressable
// record.
type CRUDNotification struct {
	AuthorRef Ref
	Action    Action

	// Kind and Location accompany ActionCreated.
	Kind     EntityKind
	Location *geo.Coordinates

	// Target and UpdatedFields accompany ActionUpdated and ActionDeleted.
	Target        *Ref
	UpdatedFields []string
}

// Author implements Notification.
func (n CRUDNotification) Author() Ref { return n.AuthorRef }

// WithAuthor implements Notification.
func (n CRUDNotification) WithAuthor(r Ref) Notification {
	n.AuthorRef = r
	return n
}

// MessageNotification announces a new event chat message.
type MessageNotification struct {
	AuthorRef Ref
	Message   Message
}

// Author implements Notification.
func (n MessageNotification) Author() Ref { return n.AuthorRef }

// WithAuthor implements Notification.
func (n MessageNotification) WithAuthor(r Ref) Notification {
	n.AuthorRef = r
	return n
}

// InvitationNotification announces a freshly sent event invitation.
type InvitationNotification struct {
	AuthorRef  Ref
	Invitation Invitation
}

// Author implements Notification.
func (n InvitationNotification) Author() Ref { return n.AuthorRef }

// WithAuthor implements Notification.
func (n InvitationNotification) WithAuthor(r Ref) Notification {
	n.AuthorRef = r
	return n
}
