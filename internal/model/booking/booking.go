package booking

import "time"

// Record is the in-memory result of a ticket booking submission. It is
// created once per form submission, immutable afterward, and never persisted
// server-side.
type Record struct {
	BookingID string    `json:"bookingId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Date      time.Time `json:"date"`
	Adults    int       `json:"adults"`
	Children  int       `json:"children"`
	CreatedAt time.Time `json:"createdAt"`
}

// Guests is the total party size encoded on the ticket.
func (r Record) Guests() int {
	return r.Adults + r.Children
}

// TicketPayload is the exact structure serialized into the scannable code.
type TicketPayload struct {
	BookingID string `json:"bookingId"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Guests    int    `json:"guests"`
}
