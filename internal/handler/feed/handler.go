package feed

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	sessionservice "github.com/lordsmuseum/ally/backend/internal/service/session"
	"github.com/lordsmuseum/ally/backend/pkg/utils"
)

// heartbeatInterval keeps idle SSE connections from being reaped by proxies.
const heartbeatInterval = 30 * time.Second

// Handler pushes transcript events to listening clients so a second device
// can mirror the conversation live.
type Handler struct {
	sessions *sessionservice.Service
	upgrader websocket.Upgrader
}

// New creates the feed handler.
func New(sessions *sessionservice.Service) *Handler {
	return &Handler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the SSE and websocket feed routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/events", h.handleSSE)
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	events, cancel, err := h.sessions.Subscribe(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	defer cancel()

	utils.SetupSSEHeaders(w)
	log.Printf("[feed] opening sse stream for session=%s", sessionID)

	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "status",
		"message": "stream established",
	})

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[feed] closing sse stream for session=%s", sessionID)
			return
		case t := <-ticker.C:
			utils.SendSSEChunk(w, flusher, map[string]any{
				"event": "heartbeat",
				"time":  t.UTC().Format(time.RFC3339),
			})
		case ev, open := <-events:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, string(ev.Type), ev)
		}
	}
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	events, cancel, err := h.sessions.Subscribe(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		log.Printf("[feed] websocket upgrade failed for session=%s: %v", sessionID, err)
		return
	}

	log.Printf("[feed] websocket connected for session=%s", sessionID)

	done := make(chan struct{})

	// Reader goroutine: the feed is one-way, but reading is what surfaces
	// the close frame.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		cancel()
		conn.Close()
		log.Printf("[feed] websocket closed for session=%s", sessionID)
	}()

	for {
		select {
		case <-done:
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
