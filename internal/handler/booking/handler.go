package booking

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	bookingmodel "github.com/lordsmuseum/ally/backend/internal/model/booking"
	bookingservice "github.com/lordsmuseum/ally/backend/internal/service/booking"
	"github.com/lordsmuseum/ally/backend/pkg/utils"
)

// Handler exposes booking submission and ticket rendering. Bookings are not
// stored server-side; the ticket endpoint takes the record back from the
// client.
type Handler struct {
	bookings *bookingservice.Service
}

// New creates the booking handler.
func New(bookings *bookingservice.Service) *Handler {
	return &Handler{bookings: bookings}
}

// RegisterRoutes registers the booking routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/bookings", h.handleCreate)
	r.Post("/bookings/ticket", h.handleTicket)
}

// createResponse pairs the record with its serialized ticket payload so the
// client can render the scannable code without a second round trip.
type createResponse struct {
	Record bookingmodel.Record `json:"record"`
	Ticket json.RawMessage     `json:"ticket"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req bookingservice.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.bookings.Create(r.Context(), req)
	if err != nil {
		var fieldErrs bookingservice.FieldErrors
		if errors.As(err, &fieldErrs) {
			utils.RespondFieldErrors(w, fieldErrs)
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload, err := bookingservice.TicketPayload(rec)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, createResponse{Record: rec, Ticket: payload})
}

func (h *Handler) handleTicket(w http.ResponseWriter, r *http.Request) {
	var rec bookingmodel.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if rec.BookingID == "" {
		utils.RespondError(w, http.StatusBadRequest, "bookingId is required")
		return
	}

	png, err := bookingservice.TicketPNG(rec)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		log.Printf("failed to write ticket png: %v", err)
	}
}
