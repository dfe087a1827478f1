package models

// Message is a chat entry inside an event. Messages are append-only; they
// are never updated or deleted.
type Message struct {
	Event          Ref    `json:"event"`
	Content        string `json:"content"`
	SentAt         Time   `json:"date"`
	Sender         Ref    `json:"sender"`
	SenderName     string `json:"senderName"`
	SenderPhotoURL string `json:"senderPhotoUrl,omitempty"`
}
