package models

// Dumpster is a reported trash container. Only the reporting user may
// update or delete it.
type Dumpster struct {
	ID          int      `json:"id"`
	Place       Place    `json:"place"`
	Description string   `json:"description"`
	Photos      []string `json:"photos"`
	ReportedBy  Ref      `json:"reportedBy"`
}

// Ref returns the typed reference to this dumpster.
func (d *Dumpster) Ref() Ref {
	return Ref{ID: d.ID, Kind: KindDumpster}
}
