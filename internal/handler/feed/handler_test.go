package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lordsmuseum/ally/backend/internal/model/artwork"
	"github.com/lordsmuseum/ally/backend/internal/service/ai"
	sessionservice "github.com/lordsmuseum/ally/backend/internal/service/session"
)

type stubCompletions struct{}

func (stubCompletions) IdentifyArtwork(context.Context, string) (ai.ArtworkResult, error) {
	return ai.ArtworkResult{Title: "t"}, nil
}

func (stubCompletions) GenerateTour(context.Context, ai.TourRequest) (ai.TourResult, error) {
	return ai.TourResult{TourDescription: "d"}, nil
}

func setup(t *testing.T) (*chi.Mux, *sessionservice.Service, string) {
	t.Helper()
	svc := sessionservice.NewService(stubCompletions{}, artwork.NewMemoryStore(artwork.Seed()), 0)
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	sess, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	return r, svc, sess.ID
}

func TestSSEFeedUnknownSession(t *testing.T) {
	r, _, _ := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/sessions/missing/events", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSSEFeedDeliversTranscriptEvents(t *testing.T) {
	r, svc, sessionID := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/sessions/"+sessionID+"/events", nil).WithContext(ctx)
	resp := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(resp, req)
		close(done)
	}()

	// Let the handler subscribe before producing events.
	time.Sleep(100 * time.Millisecond)
	if err := svc.SubmitText(context.Background(), sessionID, "give me a tour"); err != nil {
		t.Fatalf("SubmitText err: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not terminate after context cancel")
	}

	body := resp.Body.String()
	if !strings.Contains(body, "stream established") {
		t.Fatalf("missing status frame: %q", body)
	}
	if !strings.Contains(body, "event: message") {
		t.Fatalf("missing message event: %q", body)
	}
	if !strings.Contains(body, "event: transients-cleared") {
		t.Fatalf("missing eviction event: %q", body)
	}
}

func TestWebSocketFeedDeliversEvents(t *testing.T) {
	r, svc, sessionID := setup(t)

	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	defer conn.Close()

	if err := svc.SubmitText(context.Background(), sessionID, "hello"); err != nil {
		t.Fatalf("SubmitText err: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev sessionservice.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON err: %v", err)
	}
	if ev.SessionID != sessionID {
		t.Fatalf("unexpected event session: %+v", ev)
	}
}
