// Package models contains the domain records of the simulated backend and
// the typed references linking them.
package models

import "fmt"

// EntityKind discriminates the addressable record kinds.
type EntityKind string

const (
	// KindUser is a registered account.
	KindUser EntityKind = "user"
	// KindEvent is a cleanup event.
	KindEvent EntityKind = "event"
	// KindDumpster is a reported dumpster site.
	KindDumpster EntityKind = "dumpster"
	// KindWasteland is a reported illegal waste site.
	KindWasteland EntityKind = "wasteland"
)

// Valid reports whether k is one of the four addressable kinds.
func (k EntityKind) Valid() bool {
	switch k {
	case KindUser, KindEvent, KindDumpster, KindWasteland:
		return true
	}
	return false
}

// Ref is a lightweight typed pointer to another record. Records link to
// each other only through refs, never by embedding. A ref to an id that no
// longer exists is a valid value; it resolves to "not found" on lookup.
type Ref struct {
	ID   int        `json:"id"`
	Kind EntityKind `json:"type"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// Entity is implemented by every addressable record.
type Entity interface {
	Ref() Ref
}
