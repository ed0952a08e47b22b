package server

import "time"

// AskRequest is the body of POST /api/chat. Document may be empty, in which
// case the question targets the active document.
type AskRequest struct {
	Document string `json:"document"`
	Question string `json:"question" validate:"required"`
}

type DocumentResponse struct {
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	TextChars  int       `json:"text_chars"`
	Turns      int       `json:"turns"`
	Active     bool      `json:"active"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Active    string             `json:"active,omitempty"`
}

type UploadResponse struct {
	Document    DocumentResponse `json:"document"`
	Overwrote   bool             `json:"overwrote"`
	ContentHash string           `json:"content_hash"`
	Method      string           `json:"extraction_method"`
	Pages       int              `json:"pages"`
	Warnings    []string         `json:"warnings,omitempty"`
}

type TurnResponse struct {
	Role    string    `json:"role"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type AskResponse struct {
	Document string       `json:"document"`
	Answer   TurnResponse `json:"answer"`
}

type TranscriptResponse struct {
	Document string         `json:"document"`
	Turns    []TurnResponse `json:"turns"`
}
