package models

import (
	"encoding/json"
	"strconv"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MemberInfo describes a user's standing inside an event.
type MemberInfo struct {
	IsAdmin bool `json:"isAdmin"`
}

// MemberList maps member user ids to their MemberInfo. Insertion order is
// preserved through serialization but carries no semantic meaning; member
// id uniqueness does.
type MemberList struct {
	m *orderedmap.OrderedMap[string, MemberInfo]
}

// NewMemberList returns an empty member list.
func NewMemberList() *MemberList {
	return &MemberList{m: orderedmap.New[string, MemberInfo]()}
}

// Set inserts or replaces the membership entry for userID.
func (l *MemberList) Set(userID int, info MemberInfo) {
	l.m.Set(strconv.Itoa(userID), info)
}

// Get looks up the membership entry for userID.
func (l *MemberList) Get(userID int) (MemberInfo, bool) {
	return l.m.Get(strconv.Itoa(userID))
}

// Delete removes userID from the list, reporting whether it was present.
func (l *MemberList) Delete(userID int) bool {
	_, present := l.m.Delete(strconv.Itoa(userID))
	return present
}

// Len returns the member count.
func (l *MemberList) Len() int {
	return l.m.Len()
}

// IDs returns the member user ids in insertion order.
func (l *MemberList) IDs() []int {
	ids := make([]int, 0, l.m.Len())
	for pair := l.m.Oldest(); pair != nil; pair = pair.Next() {
		id, err := strconv.Atoi(pair.Key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// MarshalJSON encodes the list in the tagged Map form, keys in insertion
// order.
func (l *MemberList) MarshalJSON() ([]byte, error) {
	pair := l.m.Oldest()
	return EncodeTaggedMap(func() (string, any, bool) {
		if pair == nil {
			return "", nil, false
		}
		key, value := pair.Key, pair.Value
		pair = pair.Next()
		return key, value, true
	})
}

// UnmarshalJSON decodes the tagged Map form, preserving key order.
func (l *MemberList) UnmarshalJSON(data []byte) error {
	l.m = orderedmap.New[string, MemberInfo]()
	return DecodeTaggedMap(data, func(key string, value json.RawMessage) error {
		var info MemberInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return err
		}
		l.m.Set(key, info)
		return nil
	})
}

// Event is a scheduled cleanup gathering targeting one or more wastelands.
// Any member holding IsAdmin owns it.
type Event struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	IconURL     string      `json:"iconUrl"`
	StartsAt    Time        `json:"startDate"`
	EndsAt      Time        `json:"endDate"`
	Place       Place       `json:"place"`
	Description string      `json:"description"`
	Members     *MemberList `json:"members"`
	Wastelands  []Ref       `json:"wastelands"`
}

// Ref returns the typed reference to this event.
func (e *Event) Ref() Ref {
	return Ref{ID: e.ID, Kind: KindEvent}
}

// IsMember reports whether userID appears in the member list.
func (e *Event) IsMember(userID int) bool {
	if e.Members == nil {
		return false
	}
	_, ok := e.Members.Get(userID)
	return ok
}

// IsAdmin reports whether userID is a member holding admin rights.
func (e *Event) IsAdmin(userID int) bool {
	if e.Members == nil {
		return false
	}
	info, ok := e.Members.Get(userID)
	return ok && info.IsAdmin
}

// ActiveOn reports whether the event is still running on the given day:
// its end date is that day or later, compared at day precision.
func (e *Event) ActiveOn(day time.Time) bool {
	return !e.EndsAt.Day().Before(day.UTC().Truncate(24 * time.Hour))
}
