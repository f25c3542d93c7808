package models

import "time"

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned on a successful chat completion
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ContextUpdateRequest replaces the business context in full
type ContextUpdateRequest struct {
	Context string `json:"context"`
}

// ScrapeResult is the diagnostic output of GET /api/scrape. Length counts the
// runes of the markup as read, which stops at the fetcher's 5 MiB page cap,
// so a page over the cap reports the capped length.
type ScrapeResult struct {
	Success bool   `json:"success"`
	Length  int    `json:"length"`
	Sample  string `json:"sample"`
}

// SiteCacheTopicStatus describes one cached topic page
type SiteCacheTopicStatus struct {
	Label  string `json:"label"`
	URL    string `json:"url"`
	Length int    `json:"length"`
}

// SiteCacheStatus is returned by GET /api/site-cache
type SiteCacheStatus struct {
	UpdatedAt *time.Time                     `json:"updated_at"`
	Stale     bool                           `json:"stale"`
	Topics    map[Topic]SiteCacheTopicStatus `json:"topics"`
}

// BusinessContextDocument is the single persisted business context document
type BusinessContextDocument struct {
	ID        string    `bson:"_id" json:"id"`
	Content   string    `bson:"content" json:"content"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// WebSocketChatMessage is an outgoing frame on the chat socket
type WebSocketChatMessage struct {
	Type    string `json:"type"`
	Reply   string `json:"reply,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}
