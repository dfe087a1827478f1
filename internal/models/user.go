package models

// Rank score weights. Cleared wastelands dominate, added dumpsters help,
// deleting dumpsters costs a point.
const (
	rankWeightCleared = 10
	rankWeightAdded   = 2
	rankWeightDeleted = 1
)

// User is a registered account. Users are created at sign-up and never
// deleted. The password is stored as a bcrypt hash.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"userName"`
	Password string `json:"password"`
	PhotoURL string `json:"photoUrl,omitempty"`

	// Monotonically-increasing achievement counters. They are bumped by
	// explicit caller action, not automatically by other mutations.
	ClearedWastelands int `json:"nrOfClearedWastelands"`
	DumpstersAdded    int `json:"addedDumpsters"`
	DumpstersDeleted  int `json:"deletedDumpsters"`
}

// Ref returns the typed reference to this user.
func (u *User) Ref() Ref {
	return Ref{ID: u.ID, Kind: KindUser}
}

// Rank derives the display score from the achievement counters.
func (u *User) Rank() int {
	return rankWeightCleared*u.ClearedWastelands +
		rankWeightAdded*u.DumpstersAdded -
		rankWeightDeleted*u.DumpstersDeleted
}
