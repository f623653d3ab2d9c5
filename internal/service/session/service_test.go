package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lordsmuseum/ally/backend/internal/model/artwork"
	"github.com/lordsmuseum/ally/backend/internal/model/chat"
	"github.com/lordsmuseum/ally/backend/internal/service/ai"
	"github.com/lordsmuseum/ally/backend/internal/service/session"
)

type stubCompletions struct {
	identify      func(ctx context.Context, photoDataURI string) (ai.ArtworkResult, error)
	tour          func(ctx context.Context, req ai.TourRequest) (ai.TourResult, error)
	identifyCalls int
	tourCalls     int
}

func (s *stubCompletions) IdentifyArtwork(ctx context.Context, photoDataURI string) (ai.ArtworkResult, error) {
	s.identifyCalls++
	if s.identify == nil {
		return ai.ArtworkResult{Title: "Mona Lisa", Artist: "Leonardo da Vinci", Description: "d", Location: "Gallery 2A"}, nil
	}
	return s.identify(ctx, photoDataURI)
}

func (s *stubCompletions) GenerateTour(ctx context.Context, req ai.TourRequest) (ai.TourResult, error) {
	s.tourCalls++
	if s.tour == nil {
		return ai.TourResult{TourDescription: "Start in Gallery 1A.\nFinish in Gallery 5C."}, nil
	}
	return s.tour(ctx, req)
}

func newService(stub *stubCompletions) *session.Service {
	return session.NewService(stub, artwork.NewMemoryStore(artwork.Seed()), 0)
}

func mustCreate(t *testing.T, svc *session.Service) chat.Session {
	t.Helper()
	sess, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	return sess
}

func transcript(t *testing.T, svc *session.Service, id string) chat.TranscriptView {
	t.Helper()
	view, err := svc.Transcript(context.Background(), id)
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	return view
}

func TestCreateSessionSeedsGreetingAndAffordance(t *testing.T) {
	svc := newService(&stubCompletions{})
	sess := mustCreate(t, svc)

	view := transcript(t, svc, sess.ID)
	if len(view.Messages) != 2 {
		t.Fatalf("expected 2 seeded messages, got %d", len(view.Messages))
	}

	greeting := view.Messages[0]
	if greeting.Sender != chat.SenderGuide || greeting.Kind != chat.KindText || greeting.Transient {
		t.Fatalf("unexpected greeting: %+v", greeting)
	}
	affordance := view.Messages[1]
	if affordance.Kind != chat.KindUploadAffordance || !affordance.Transient {
		t.Fatalf("unexpected affordance: %+v", affordance)
	}
	if view.Busy {
		t.Fatal("new session must be idle")
	}
}

func TestSubmitTextEmptyIsNoOp(t *testing.T) {
	svc := newService(&stubCompletions{})
	sess := mustCreate(t, svc)
	before := transcript(t, svc, sess.ID)

	if err := svc.SubmitText(context.Background(), sess.ID, "   \t "); !errors.Is(err, session.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}

	after := transcript(t, svc, sess.ID)
	if len(after.Messages) != len(before.Messages) || after.Busy {
		t.Fatal("empty submission must not change session state")
	}
}

func TestSubmitTextUnknownSession(t *testing.T) {
	svc := newService(&stubCompletions{})
	if err := svc.SubmitText(context.Background(), "missing", "hello"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitTextTourRequestAppendsForm(t *testing.T) {
	svc := newService(&stubCompletions{})
	sess := mustCreate(t, svc)

	if err := svc.SubmitText(context.Background(), sess.ID, "Can you give me a Tour?"); err != nil {
		t.Fatalf("SubmitText err: %v", err)
	}

	view := transcript(t, svc, sess.ID)
	// greeting + visitor text + tour form; the seeded affordance is evicted.
	if len(view.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(view.Messages))
	}
	visitor := view.Messages[1]
	if visitor.Sender != chat.SenderVisitor || visitor.Text != "Can you give me a Tour?" {
		t.Fatalf("unexpected visitor message: %+v", visitor)
	}
	form := view.Messages[2]
	if form.Kind != chat.KindTourForm || !form.Transient || form.Sender != chat.SenderGuide {
		t.Fatalf("unexpected form message: %+v", form)
	}
	for _, msg := range view.Messages {
		if msg.Kind == chat.KindUploadAffordance {
			t.Fatal("stale affordance survived the submission")
		}
	}
	if view.Busy {
		t.Fatal("tour form must not set busy")
	}
}

func TestSubmitTextFallbackAcknowledgment(t *testing.T) {
	svc := newService(&stubCompletions{})
	sess := mustCreate(t, svc)

	if err := svc.SubmitText(context.Background(), sess.ID, "hello"); err != nil {
		t.Fatalf("SubmitText err: %v", err)
	}

	view := transcript(t, svc, sess.ID)
	// greeting + visitor + acknowledgment + fresh affordance.
	if len(view.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(view.Messages))
	}
	ack := view.Messages[2]
	if ack.Sender != chat.SenderGuide || ack.Kind != chat.KindText || ack.Transient {
		t.Fatalf("unexpected acknowledgment: %+v", ack)
	}
	if !strings.Contains(ack.Text, "create a tour") {
		t.Fatalf("unexpected acknowledgment text: %q", ack.Text)
	}
	fresh := view.Messages[3]
	if fresh.Kind != chat.KindUploadAffordance || !fresh.Transient {
		t.Fatalf("expected fresh affordance, got %+v", fresh)
	}
}

func TestSubmitTextFallbackDelayed(t *testing.T) {
	stub := &stubCompletions{}
	svc := session.NewService(stub, artwork.NewMemoryStore(artwork.Seed()), 5*time.Millisecond)
	sess := mustCreate(t, svc)

	if err := svc.SubmitText(context.Background(), sess.ID, "hello"); err != nil {
		t.Fatalf("SubmitText err: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		view := transcript(t, svc, sess.ID)
		if len(view.Messages) == 4 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("acknowledgment never appended, have %d messages", len(view.Messages))
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSubmitImageSuccess(t *testing.T) {
	stub := &stubCompletions{}
	svc := newService(stub)
	sess := mustCreate(t, svc)

	if err := svc.SubmitImage(context.Background(), sess.ID, "image/png", strings.NewReader("pixels")); err != nil {
		t.Fatalf("SubmitImage err: %v", err)
	}

	view := transcript(t, svc, sess.ID)
	// greeting + image preview + artwork card; affordance evicted by busy.
	if len(view.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(view.Messages))
	}
	preview := view.Messages[1]
	if preview.Sender != chat.SenderVisitor || preview.Kind != chat.KindImagePreview {
		t.Fatalf("unexpected preview: %+v", preview)
	}
	if !strings.HasPrefix(preview.ImageDataURI, "data:image/png;base64,") {
		t.Fatalf("unexpected data uri: %q", preview.ImageDataURI)
	}
	card := view.Messages[2]
	if card.Sender != chat.SenderGuide || card.Kind != chat.KindArtworkCard {
		t.Fatalf("unexpected card: %+v", card)
	}
	if card.Artwork == nil || card.Artwork.Title != "Mona Lisa" {
		t.Fatalf("unexpected artwork payload: %+v", card.Artwork)
	}
	if view.Busy {
		t.Fatal("busy must clear after success")
	}
	if view.Notice != nil {
		t.Fatal("success must not set a notice")
	}
}

func TestSubmitImageFailureLeavesTranscriptIntact(t *testing.T) {
	stub := &stubCompletions{
		identify: func(context.Context, string) (ai.ArtworkResult, error) {
			return ai.ArtworkResult{}, errors.New("model quota exceeded")
		},
	}
	svc := newService(stub)
	sess := mustCreate(t, svc)

	if err := svc.SubmitImage(context.Background(), sess.ID, "image/png", strings.NewReader("pixels")); err == nil {
		t.Fatal("expected identification failure")
	}

	view := transcript(t, svc, sess.ID)
	// only the greeting remains: affordance evicted, nothing appended.
	if len(view.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(view.Messages))
	}
	if view.Busy {
		t.Fatal("busy must clear after failure")
	}
	if view.Notice == nil {
		t.Fatal("failure must surface a notice")
	}

	if err := svc.DismissNotice(context.Background(), sess.ID); err != nil {
		t.Fatalf("DismissNotice err: %v", err)
	}
	if transcript(t, svc, sess.ID).Notice != nil {
		t.Fatal("notice must be dismissible")
	}
}

func TestSubmitWhileBusyIsDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	stub := &stubCompletions{
		identify: func(context.Context, string) (ai.ArtworkResult, error) {
			close(started)
			<-release
			return ai.ArtworkResult{Title: "t"}, nil
		},
	}
	svc := newService(stub)
	sess := mustCreate(t, svc)

	done := make(chan error, 1)
	go func() {
		done <- svc.SubmitImage(context.Background(), sess.ID, "image/png", strings.NewReader("pixels"))
	}()
	<-started

	if err := svc.SubmitText(context.Background(), sess.ID, "hello"); !errors.Is(err, session.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := svc.SubmitImage(context.Background(), sess.ID, "image/png", strings.NewReader("pixels")); !errors.Is(err, session.ErrBusy) {
		t.Fatalf("expected ErrBusy for second image, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first SubmitImage err: %v", err)
	}
	if stub.identifyCalls != 1 {
		t.Fatalf("busy submissions must be dropped, not queued: %d calls", stub.identifyCalls)
	}
}

func TestSubmitTourRequestValidation(t *testing.T) {
	stub := &stubCompletions{}
	svc := newService(stub)
	sess := mustCreate(t, svc)

	err := svc.SubmitTourRequest(context.Background(), sess.ID, "ab", "45")
	var fieldErrs session.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if _, ok := fieldErrs["interests"]; !ok {
		t.Fatal("expected interests error")
	}
	if _, ok := fieldErrs["availableTime"]; !ok {
		t.Fatal("expected availableTime error")
	}
	if stub.tourCalls != 0 {
		t.Fatal("validation failures must never reach the completion layer")
	}

	view := transcript(t, svc, sess.ID)
	if len(view.Messages) != 2 || view.Busy {
		t.Fatal("validation failure must not change session state")
	}
}

func TestSubmitTourRequestSuccess(t *testing.T) {
	var gotReq ai.TourRequest
	stub := &stubCompletions{
		tour: func(_ context.Context, req ai.TourRequest) (ai.TourResult, error) {
			gotReq = req
			return ai.TourResult{TourDescription: "First paragraph.\nSecond paragraph."}, nil
		},
	}
	svc := newService(stub)
	sess := mustCreate(t, svc)

	if err := svc.SubmitTourRequest(context.Background(), sess.ID, "Impressionism", "60"); err != nil {
		t.Fatalf("SubmitTourRequest err: %v", err)
	}

	if gotReq.Interests != "Impressionism" || gotReq.AvailableTime != "60" {
		t.Fatalf("unexpected tour request: %+v", gotReq)
	}
	if !strings.Contains(gotReq.MuseumMap, `"The Starry Night" by Vincent van Gogh is in Gallery 5C.`) {
		t.Fatalf("museum map missing catalog line: %q", gotReq.MuseumMap)
	}
	if !strings.Contains(gotReq.MuseumMap, "sequentially from 1 to 10") {
		t.Fatalf("museum map missing layout note: %q", gotReq.MuseumMap)
	}

	view := transcript(t, svc, sess.ID)
	last := view.Messages[len(view.Messages)-1]
	if last.Kind != chat.KindTourCard || last.Transient || last.Sender != chat.SenderGuide {
		t.Fatalf("unexpected tour card: %+v", last)
	}
	if len(last.Tour.Paragraphs) != 2 || last.Tour.Paragraphs[1] != "Second paragraph." {
		t.Fatalf("unexpected paragraphs: %+v", last.Tour.Paragraphs)
	}
	if view.Busy {
		t.Fatal("busy must clear after tour completion")
	}
}

func TestSubmitTourRequestFailureSetsNotice(t *testing.T) {
	stub := &stubCompletions{
		tour: func(context.Context, ai.TourRequest) (ai.TourResult, error) {
			return ai.TourResult{}, errors.New("timeout")
		},
	}
	svc := newService(stub)
	sess := mustCreate(t, svc)

	if err := svc.SubmitTourRequest(context.Background(), sess.ID, "sculpture", "30"); err == nil {
		t.Fatal("expected tour failure")
	}

	view := transcript(t, svc, sess.ID)
	if view.Busy {
		t.Fatal("busy must clear after failure")
	}
	if view.Notice == nil {
		t.Fatal("failure must surface a notice")
	}
	for _, msg := range view.Messages {
		if msg.Kind == chat.KindTourCard {
			t.Fatal("failed tour must not append a card")
		}
	}
}

func TestSubscribeReceivesAppendEvents(t *testing.T) {
	svc := newService(&stubCompletions{})
	sess := mustCreate(t, svc)

	events, cancel, err := svc.Subscribe(sess.ID)
	if err != nil {
		t.Fatalf("Subscribe err: %v", err)
	}
	defer cancel()

	if err := svc.SubmitText(context.Background(), sess.ID, "give me a tour"); err != nil {
		t.Fatalf("SubmitText err: %v", err)
	}

	var kinds []session.EventType
	timeout := time.After(time.Second)
	for len(kinds) < 3 {
		select {
		case ev := <-events:
			kinds = append(kinds, ev.Type)
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %v", kinds)
		}
	}

	if kinds[0] != session.EventTransientsCleared {
		t.Fatalf("expected transient eviction first, got %v", kinds)
	}
	if kinds[1] != session.EventMessage || kinds[2] != session.EventMessage {
		t.Fatalf("expected two message events, got %v", kinds)
	}
}
