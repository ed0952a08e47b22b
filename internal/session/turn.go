package session

import "time"

// Speaker roles for transcript turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a document's transcript. Immutable once appended.
type Turn struct {
	Role    string    `json:"role"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Document is one uploaded file's identity plus its extracted text.
type Document struct {
	Name       string    `json:"name"`
	Text       string    `json:"text"`
	Kind       string    `json:"kind"` // constants.PDF | constants.IMAGE
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Snapshot is a point-in-time copy of one document and its transcript.
type Snapshot struct {
	Document   Document
	Transcript []Turn
}
