package storage

import "wastewatch/internal/models"

// Snapshot is the whole persisted application state: every entity
// collection plus the serialized session of the current user. Invitations
// are keyed by recipient user id, messages by event id.
type Snapshot struct {
	Users       *Collection[*models.User]        `json:"users"`
	Events      *Collection[*models.Event]       `json:"events"`
	Wastelands  *Collection[*models.Wasteland]   `json:"wastelands"`
	Dumpsters   *Collection[*models.Dumpster]    `json:"dumpsters"`
	Invitations *Collection[[]models.Invitation] `json:"invitations"`
	Messages    *Collection[[]models.Message]    `json:"messages"`

	// Session is the signed token of the logged-in user, empty when
	// logged out.
	Session string `json:"currentUser,omitempty"`
}

// NewSnapshot returns an empty snapshot with all collections allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:       NewCollection[*models.User](),
		Events:      NewCollection[*models.Event](),
		Wastelands:  NewCollection[*models.Wasteland](),
		Dumpsters:   NewCollection[*models.Dumpster](),
		Invitations: NewCollection[[]models.Invitation](),
		Messages:    NewCollection[[]models.Message](),
	}
}

// AddInvitation appends an invitation to the recipient's list unless one
// for the same event is already pending. It reports whether the insert
// happened.
func (s *Snapshot) AddInvitation(inv models.Invitation) bool {
	pending, _ := s.Invitations.Get(inv.User.ID)
	for _, existing := range pending {
		if existing.Event.ID == inv.Event.ID {
			return false
		}
	}
	s.Invitations.Put(inv.User.ID, append(pending, inv))
	return true
}

// RemoveInvitation drops the recipient's invitation for the given event,
// reporting whether one was present.
func (s *Snapshot) RemoveInvitation(userID, eventID int) bool {
	pending, ok := s.Invitations.Get(userID)
	if !ok {
		return false
	}
	for i, inv := range pending {
		if inv.Event.ID == eventID {
			s.Invitations.Put(userID, append(pending[:i:i], pending[i+1:]...))
			return true
		}
	}
	return false
}

// AppendMessage adds a message to its event's log.
func (s *Snapshot) AppendMessage(msg models.Message) {
	log, _ := s.Messages.Get(msg.Event.ID)
	s.Messages.Put(msg.Event.ID, append(log, msg))
}
