package booking

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/lordsmuseum/ally/backend/internal/model/booking"
)

// ticketSize is the fixed pixel size of the rendered scannable code.
const ticketSize = 256

// TicketPayload serializes the scannable ticket for a booking record. Pure
// and idempotent: equal records yield byte-identical payloads.
func TicketPayload(rec booking.Record) ([]byte, error) {
	payload := booking.TicketPayload{
		BookingID: rec.BookingID,
		Name:      rec.Name,
		Date:      rec.Date.Format("2006-01-02"),
		Guests:    rec.Guests(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal ticket payload: %w", err)
	}
	return data, nil
}

// TicketPNG renders the payload as a QR code PNG at the fixed ticket size.
func TicketPNG(rec booking.Record) ([]byte, error) {
	payload, err := TicketPayload(rec)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, ticketSize)
	if err != nil {
		return nil, fmt.Errorf("encode ticket qr: %w", err)
	}
	return png, nil
}
