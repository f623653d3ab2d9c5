package chat

import "time"

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderVisitor Sender = "visitor"
	SenderGuide   Sender = "guide"
)

// Kind is the closed set of payload variants a transcript entry can carry.
// Renderers switch on it exhaustively.
type Kind string

const (
	KindText             Kind = "text"
	KindImagePreview     Kind = "image-preview"
	KindArtworkCard      Kind = "artwork-card"
	KindTourCard         Kind = "tour-card"
	KindUploadAffordance Kind = "upload-affordance"
	KindTourForm         Kind = "tour-form"
)

// ArtworkCard is the structured identification result shown to the visitor.
type ArtworkCard struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// TourCard carries a generated tour split into display paragraphs.
type TourCard struct {
	Paragraphs []string `json:"paragraphs"`
}

// Message is one transcript entry. Entries are append-only: transient ones
// may be evicted, but none is ever reordered or mutated in place.
type Message struct {
	ID           string       `json:"id"`
	SessionID    string       `json:"sessionId"`
	Sender       Sender       `json:"sender"`
	Kind         Kind         `json:"kind"`
	Text         string       `json:"text,omitempty"`
	ImageDataURI string       `json:"imageDataUri,omitempty"`
	Artwork      *ArtworkCard `json:"artwork,omitempty"`
	Tour         *TourCard    `json:"tour,omitempty"`
	Transient    bool         `json:"transient,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}
