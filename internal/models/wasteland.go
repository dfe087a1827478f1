package models

// CleaningData records a finished cleanup of a wasteland.
type CleaningData struct {
	CleanedBy []Ref    `json:"cleanedBy"`
	CleanedAt Time     `json:"date"`
	Photos    []string `json:"photos"`
}

// Wasteland is a reported illegal waste site. It stays active until an
// after-cleaning record is attached.
type Wasteland struct {
	ID           int      `json:"id"`
	Place        Place    `json:"place"`
	Photos       []string `json:"photos"`
	Description  string   `json:"description"`
	CreatedAt    Time     `json:"creationDate"`
	ReportedBy   Ref      `json:"reportedBy"`
	ReporterName string   `json:"reporterName"`

	AfterCleaning *CleaningData `json:"afterCleaningData,omitempty"`
}

// Ref returns the typed reference to this wasteland.
func (w *Wasteland) Ref() Ref {
	return Ref{ID: w.ID, Kind: KindWasteland}
}

// Active reports whether the site still awaits cleaning.
func (w *Wasteland) Active() bool {
	return w.AfterCleaning == nil
}
