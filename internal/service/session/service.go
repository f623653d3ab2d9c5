package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lordsmuseum/ally/backend/internal/model/artwork"
	"github.com/lordsmuseum/ally/backend/internal/model/chat"
	"github.com/lordsmuseum/ally/backend/internal/service/ai"
	"github.com/lordsmuseum/ally/backend/pkg/dataurl"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrBusy            = errors.New("an operation is already in progress")
)

// FieldErrors carries per-field validation messages for the tour form. They
// block submission and never reach the completion layer.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Completions is what the conversation core needs from the completion layer.
// *ai.Service satisfies it; tests substitute stubs.
type Completions interface {
	IdentifyArtwork(ctx context.Context, photoDataURI string) (ai.ArtworkResult, error)
	GenerateTour(ctx context.Context, req ai.TourRequest) (ai.TourResult, error)
}

const greetingText = `Welcome to ALLY, your personal museum guide! I can help you with a few things. Identify Artwork: upload an image, and I'll tell you about it. Generate a Tour: type "give me a tour" or "create a tour" to get a personalized plan.`

const fallbackText = `I'm not sure how to help with that. You can upload an image to identify artwork, or ask me to "create a tour".`

const uploadPromptText = "Upload a photo of an artwork and I'll tell you about it."

const tourFormPromptText = "Happy to plan a tour! Tell me your interests and how much time you have."

const (
	noticeIdentifyFailed = "Could not identify the artwork. Please try another image."
	noticeFileRead       = "There was an issue reading your image file. Please try again."
	noticeTourFailed     = "Could not generate a tour at this time. Please try again later."
)

var tourTimes = map[string]bool{"30": true, "60": true, "90": true, "120": true}

// EventType enumerates the live-feed event kinds.
type EventType string

const (
	EventMessage           EventType = "message"
	EventTransientsCleared EventType = "transients-cleared"
	EventBusy              EventType = "busy"
	EventNotice            EventType = "notice"
)

// Event is one live-feed update delivered to transcript subscribers.
type Event struct {
	Type      EventType     `json:"type"`
	SessionID string        `json:"sessionId"`
	Message   *chat.Message `json:"message,omitempty"`
	Busy      bool          `json:"busy,omitempty"`
	Notice    *chat.Notice  `json:"notice,omitempty"`
}

// state is one visitor session. Every mutation happens under mu, which keeps
// the transcript single-writer.
type state struct {
	mu          sync.Mutex
	session     chat.Session
	transcript  []chat.Message
	busy        bool
	notice      *chat.Notice
	subscribers map[int]chan Event
	nextSub     int
}

// Service owns all active conversation sessions.
type Service struct {
	mu            sync.RWMutex
	sessions      map[string]*state
	completions   Completions
	catalog       artwork.Store
	fallbackDelay time.Duration
}

// NewService bootstraps the in-memory session service. A non-positive
// fallbackDelay makes the guide acknowledgment append synchronously, which
// tests rely on.
func NewService(completions Completions, catalog artwork.Store, fallbackDelay time.Duration) *Service {
	return &Service{
		sessions:      make(map[string]*state),
		completions:   completions,
		catalog:       catalog,
		fallbackDelay: fallbackDelay,
	}
}

// CreateSession provisions an anonymous session seeded with the guide
// greeting and the initial upload affordance.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	sess := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	st := &state{
		session:     sess,
		transcript:  make([]chat.Message, 0, 16),
		subscribers: make(map[int]chan Event),
	}
	st.appendLocked(chat.Message{
		Sender: chat.SenderGuide,
		Kind:   chat.KindText,
		Text:   greetingText,
	})
	st.appendLocked(chat.Message{
		Sender:    chat.SenderGuide,
		Kind:      chat.KindUploadAffordance,
		Text:      uploadPromptText,
		Transient: true,
	})

	s.mu.Lock()
	s.sessions[sess.ID] = st
	s.mu.Unlock()

	return sess, nil
}

// SubmitText routes visitor input. Empty input and busy sessions are rejected
// without touching state; a submission containing "tour" gets the transient
// tour form, anything else gets the delayed static acknowledgment plus a
// fresh upload affordance.
func (s *Service) SubmitText(_ context.Context, sessionID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	st, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	st.mu.Lock()
	if st.busy {
		st.mu.Unlock()
		return ErrBusy
	}

	st.stripTransientsLocked()
	st.appendLocked(chat.Message{
		Sender: chat.SenderVisitor,
		Kind:   chat.KindText,
		Text:   text,
	})

	if strings.Contains(strings.ToLower(text), "tour") {
		st.appendLocked(chat.Message{
			Sender:    chat.SenderGuide,
			Kind:      chat.KindTourForm,
			Text:      tourFormPromptText,
			Transient: true,
		})
		st.mu.Unlock()
		return nil
	}
	st.mu.Unlock()

	if s.fallbackDelay <= 0 {
		s.appendFallback(st)
		return nil
	}

	time.AfterFunc(s.fallbackDelay, func() {
		s.appendFallback(st)
	})
	return nil
}

func (s *Service) appendFallback(st *state) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.appendLocked(chat.Message{
		Sender: chat.SenderGuide,
		Kind:   chat.KindText,
		Text:   fallbackText,
	})
	st.appendLocked(chat.Message{
		Sender:    chat.SenderGuide,
		Kind:      chat.KindUploadAffordance,
		Text:      uploadPromptText,
		Transient: true,
	})
}

// SubmitImage encodes the uploaded photo and runs artwork identification.
// The busy flag serializes completion-bound operations: a submission during
// an outstanding call is dropped with ErrBusy, never queued.
func (s *Service) SubmitImage(ctx context.Context, sessionID, mime string, r io.Reader) error {
	st, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	if err := st.begin(); err != nil {
		return err
	}

	photoDataURI, err := dataurl.Encode(mime, r)
	if err != nil {
		st.fail(noticeFileRead)
		return fmt.Errorf("encode photo: %w", err)
	}

	result, err := s.completions.IdentifyArtwork(ctx, photoDataURI)
	if err != nil {
		st.fail(noticeIdentifyFailed)
		log.Printf("[session] identification failed for session=%s: %v", sessionID, err)
		return fmt.Errorf("identify artwork: %w", err)
	}

	st.mu.Lock()
	st.appendLocked(chat.Message{
		Sender:       chat.SenderVisitor,
		Kind:         chat.KindImagePreview,
		ImageDataURI: photoDataURI,
	})
	st.appendLocked(chat.Message{
		Sender: chat.SenderGuide,
		Kind:   chat.KindArtworkCard,
		Artwork: &chat.ArtworkCard{
			Title:       result.Title,
			Artist:      result.Artist,
			Description: result.Description,
			Location:    result.Location,
		},
	})
	st.setBusyLocked(false)
	st.mu.Unlock()

	return nil
}

// SubmitTourRequest validates the tour form and, when valid, runs the tour
// generation flow against the catalog map description.
func (s *Service) SubmitTourRequest(ctx context.Context, sessionID, interests, availableTime string) error {
	fieldErrs := FieldErrors{}
	if len(strings.TrimSpace(interests)) < 3 {
		fieldErrs["interests"] = "Please describe your interests in a few words."
	}
	if !tourTimes[availableTime] {
		fieldErrs["availableTime"] = "Please select your available time."
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	st, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	if err := st.begin(); err != nil {
		return err
	}

	result, err := s.completions.GenerateTour(ctx, ai.TourRequest{
		Interests:     strings.TrimSpace(interests),
		AvailableTime: availableTime,
		MuseumMap:     artwork.MapDescription(s.catalog.List()),
	})
	if err != nil {
		st.fail(noticeTourFailed)
		log.Printf("[session] tour generation failed for session=%s: %v", sessionID, err)
		return fmt.Errorf("generate tour: %w", err)
	}

	s.completeTour(st, result.TourDescription)
	return nil
}

// completeTour appends the tour card, splitting the description into display
// paragraphs on newline boundaries, and clears busy.
func (s *Service) completeTour(st *state, description string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.appendLocked(chat.Message{
		Sender: chat.SenderGuide,
		Kind:   chat.KindTourCard,
		Tour:   &chat.TourCard{Paragraphs: strings.Split(description, "\n")},
	})
	st.setBusyLocked(false)
}

// Transcript returns a copy of the session's current view.
func (s *Service) Transcript(_ context.Context, sessionID string) (chat.TranscriptView, error) {
	st, err := s.lookup(sessionID)
	if err != nil {
		return chat.TranscriptView{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	messages := make([]chat.Message, len(st.transcript))
	copy(messages, st.transcript)

	var notice *chat.Notice
	if st.notice != nil {
		copied := *st.notice
		notice = &copied
	}

	return chat.TranscriptView{
		Session:  st.session,
		Messages: messages,
		Busy:     st.busy,
		Notice:   notice,
	}, nil
}

// DismissNotice clears the session's failure notice.
func (s *Service) DismissNotice(_ context.Context, sessionID string) error {
	st, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	st.mu.Lock()
	st.notice = nil
	st.mu.Unlock()
	return nil
}

// Subscribe attaches a live-feed listener to the session. The returned cancel
// function must be called to release the subscription.
func (s *Service) Subscribe(sessionID string) (<-chan Event, func(), error) {
	st, err := s.lookup(sessionID)
	if err != nil {
		return nil, nil, err
	}

	st.mu.Lock()
	id := st.nextSub
	st.nextSub++
	ch := make(chan Event, 16)
	st.subscribers[id] = ch
	st.mu.Unlock()

	cancel := func() {
		st.mu.Lock()
		if sub, ok := st.subscribers[id]; ok {
			delete(st.subscribers, id)
			close(sub)
		}
		st.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *Service) lookup(sessionID string) (*state, error) {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st, nil
}

// begin transitions the session into its single outstanding operation.
// Setting busy is the choke point that evicts live affordances.
func (st *state) begin() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.busy {
		return ErrBusy
	}
	st.setBusyLocked(true)
	return nil
}

// fail records a dismissible notice and returns the session to idle. The
// transcript gains nothing: whatever committed before the failure stands.
func (st *state) fail(message string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.notice = &chat.Notice{Message: message, At: time.Now().UTC()}
	st.publishLocked(Event{Type: EventNotice, SessionID: st.session.ID, Notice: st.notice})
	st.setBusyLocked(false)
}

func (st *state) appendLocked(msg chat.Message) {
	msg.ID = uuid.NewString()
	msg.SessionID = st.session.ID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	st.transcript = append(st.transcript, msg)
	st.publishLocked(Event{Type: EventMessage, SessionID: st.session.ID, Message: &msg})
}

func (st *state) stripTransientsLocked() {
	kept := st.transcript[:0]
	removed := false
	for _, msg := range st.transcript {
		if msg.Transient {
			removed = true
			continue
		}
		kept = append(kept, msg)
	}
	st.transcript = kept
	if removed {
		st.publishLocked(Event{Type: EventTransientsCleared, SessionID: st.session.ID})
	}
}

func (st *state) setBusyLocked(flag bool) {
	if flag {
		st.stripTransientsLocked()
	}
	st.busy = flag
	st.publishLocked(Event{Type: EventBusy, SessionID: st.session.ID, Busy: flag})
}

// publishLocked delivers the event to every subscriber without blocking the
// transcript writer. A subscriber that cannot keep up loses events.
func (st *state) publishLocked(ev Event) {
	for _, ch := range st.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
