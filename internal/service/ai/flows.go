package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/schema"
)

// ArtworkResult is the identification flow's output schema.
type ArtworkResult struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// TourRequest is the tour generation flow's input schema.
type TourRequest struct {
	Interests     string `json:"interests"`
	AvailableTime string `json:"availableTime"`
	MuseumMap     string `json:"museumMap"`
}

// TourResult is the tour generation flow's output schema.
type TourResult struct {
	TourDescription string `json:"tourDescription"`
}

// ConverseResult is the general-conversation flow's output schema.
type ConverseResult struct {
	Response string `json:"response"`
}

// IdentifyArtwork sends the photo data URI to the model as an image part and
// parses the structured identification out of the reply.
func (s *Service) IdentifyArtwork(ctx context.Context, photoDataURI string) (ArtworkResult, error) {
	if photoDataURI == "" {
		return ArtworkResult{}, fmt.Errorf("photo data uri is required")
	}

	messages := []*schema.Message{
		schema.SystemMessage(identifySystemPrompt),
		{
			Role: schema.User,
			MultiContent: []schema.ChatMessagePart{
				{
					Type: schema.ChatMessagePartTypeText,
					Text: identifyUserPrompt,
				},
				{
					Type:     schema.ChatMessagePartTypeImageURL,
					ImageURL: &schema.ChatMessageImageURL{URL: photoDataURI},
				},
			},
		},
	}

	response, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return ArtworkResult{}, fmt.Errorf("identify artwork: %w", err)
	}

	result, err := ExtractJSON[ArtworkResult](response.Content, func(r ArtworkResult) error {
		if r.Title == "" {
			return fmt.Errorf("missing title")
		}
		return nil
	})
	if err != nil {
		return ArtworkResult{}, fmt.Errorf("identify artwork: %w", err)
	}

	log.Printf("[ai] identified artwork title=%q artist=%q", result.Title, result.Artist)
	return result, nil
}

// GenerateTour runs the personalized-tour chain.
func (s *Service) GenerateTour(ctx context.Context, req TourRequest) (TourResult, error) {
	input := map[string]any{
		"interests":     req.Interests,
		"availableTime": req.AvailableTime,
		"museumMap":     req.MuseumMap,
	}

	response, err := s.tourChain.Invoke(ctx, input)
	if err != nil {
		return TourResult{}, fmt.Errorf("generate tour: %w", err)
	}

	result, err := ExtractJSON[TourResult](response.Content, func(r TourResult) error {
		if r.TourDescription == "" {
			return fmt.Errorf("missing tourDescription")
		}
		return nil
	})
	if err != nil {
		return TourResult{}, fmt.Errorf("generate tour: %w", err)
	}

	log.Printf("[ai] generated tour, length=%d", len(result.TourDescription))
	return result, nil
}

// Converse answers a general museum question. Defined by the collaborator
// contract; chat dispatch does not call it, the flowtester tool does.
func (s *Service) Converse(ctx context.Context, query string) (ConverseResult, error) {
	response, err := s.converseChain.Invoke(ctx, map[string]any{"query": query})
	if err != nil {
		return ConverseResult{}, fmt.Errorf("converse: %w", err)
	}

	result, err := ExtractJSON[ConverseResult](response.Content, func(r ConverseResult) error {
		if r.Response == "" {
			return fmt.Errorf("missing response")
		}
		return nil
	})
	if err != nil {
		return ConverseResult{}, fmt.Errorf("converse: %w", err)
	}

	return result, nil
}
