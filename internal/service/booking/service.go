package booking

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/lordsmuseum/ally/backend/internal/model/booking"
)

// bookingIDPrefix matches the ticket series issued by the museum.
const bookingIDPrefix = "LM-"

// Request carries the booking form fields.
type Request struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Date     string `json:"date"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
}

// FieldErrors carries per-field validation messages; they block submission.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Service synthesizes booking records. Nothing is stored or checked against
// availability; the record lives only as long as the caller keeps it.
type Service struct {
	now func() time.Time
}

// NewService returns the booking service.
func NewService() *Service {
	return &Service{now: time.Now}
}

// Create validates the form and synthesizes an immutable booking record with
// a generated identifier. There is no failure path beyond field validation.
func (s *Service) Create(_ context.Context, req Request) (booking.Record, error) {
	fieldErrs := FieldErrors{}

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		fieldErrs["name"] = "Please enter a valid name."
	}

	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		fieldErrs["email"] = "Please enter a valid email address."
	}

	var visitDate time.Time
	if strings.TrimSpace(req.Date) == "" {
		fieldErrs["date"] = "A date of visit is required."
	} else {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			fieldErrs["date"] = "Please enter the visit date as YYYY-MM-DD."
		} else {
			visitDate = parsed
		}
	}

	if req.Adults < 1 {
		fieldErrs["adults"] = "At least one adult ticket is required."
	}
	if req.Children < 0 {
		fieldErrs["children"] = "Children count must not be negative."
	}

	if len(fieldErrs) > 0 {
		return booking.Record{}, fieldErrs
	}

	now := s.now().UTC()
	return booking.Record{
		BookingID: fmt.Sprintf("%s%d", bookingIDPrefix, now.UnixMilli()),
		Name:      name,
		Email:     email,
		Date:      visitDate,
		Adults:    req.Adults,
		Children:  req.Children,
		CreatedAt: now,
	}, nil
}
