package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	sessionservice "github.com/lordsmuseum/ally/backend/internal/service/session"
	"github.com/lordsmuseum/ally/backend/pkg/utils"
)

// maxPhotoBytes caps artwork photo uploads.
const maxPhotoBytes = 10 << 20

// Handler exposes the conversation session over HTTP.
type Handler struct {
	sessions *sessionservice.Service
}

// New creates the session handler.
func New(sessions *sessionservice.Service) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes registers the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleTranscript)
		r.Post("/messages", h.handleSubmitText)
		r.Post("/photo", h.handleSubmitImage)
		r.Post("/tour", h.handleSubmitTour)
		r.Delete("/notice", h.handleDismissNotice)
	})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	view, err := h.sessions.Transcript(r.Context(), sess.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Transcript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) handleSubmitText(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.sessions.SubmitText(r.Context(), sessionID, payload.Text); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondTranscript(w, r, sessionID)
}

func (h *Handler) handleSubmitImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		utils.RespondError(w, http.StatusBadRequest, "photo content type is required")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.sessions.SubmitImage(r.Context(), sessionID, mime, file); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondTranscript(w, r, sessionID)
}

func (h *Handler) handleSubmitTour(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Interests     string `json:"interests"`
		AvailableTime string `json:"availableTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.sessions.SubmitTourRequest(r.Context(), sessionID, payload.Interests, payload.AvailableTime); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondTranscript(w, r, sessionID)
}

func (h *Handler) handleDismissNotice(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DismissNotice(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondTranscript(w http.ResponseWriter, r *http.Request, sessionID string) {
	view, err := h.sessions.Transcript(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var fieldErrs sessionservice.FieldErrors
	switch {
	case errors.Is(err, sessionservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sessionservice.ErrBusy):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sessionservice.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &fieldErrs):
		utils.RespondFieldErrors(w, fieldErrs)
	default:
		// Completion service or file-read failure; the session already
		// carries the dismissible notice.
		utils.RespondError(w, http.StatusBadGateway, err.Error())
	}
}
