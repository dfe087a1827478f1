package models

// Invitation asks a user to join an event, optionally as an admin. At most
// one invitation exists per (user, event) pair; the store skips duplicate
// inserts.
type Invitation struct {
	Event     Ref    `json:"event"`
	EventName string `json:"eventName"`
	User      Ref    `json:"user"`
	AsAdmin   bool   `json:"asAdmin"`
}
