package chat

import "time"

// Session captures a transient anonymous visitor conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notice is a dismissible failure surfaced outside the transcript. A failed
// operation never appends to the transcript; it sets the session notice.
type Notice struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// TranscriptView is the read snapshot handed to HTTP clients.
type TranscriptView struct {
	Session  Session   `json:"session"`
	Messages []Message `json:"messages"`
	Busy     bool      `json:"busy"`
	Notice   *Notice   `json:"notice,omitempty"`
}
