package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/lordsmuseum/ally/backend/internal/config"
)

// Service is the completion layer: structured input in, structured output or
// failure out. No streaming, no retries, no partial results.
type Service struct {
	chatModel     model.ChatModel
	cfg           config.AIConfig
	tourChain     compose.Runnable[map[string]any, *schema.Message]
	converseChain compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the completion service backed by the configured Ark
// chat model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	tourChain, err := compileChain(ctx, chatModel, tourSystemPrompt, tourUserTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to compile tour chain: %w", err)
	}

	converseChain, err := compileChain(ctx, chatModel, converseSystemPrompt, converseUserTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to compile converse chain: %w", err)
	}

	return &Service{
		chatModel:     chatModel,
		cfg:           cfg,
		tourChain:     tourChain,
		converseChain: converseChain,
	}, nil
}

func compileChain(ctx context.Context, chatModel model.ChatModel, system, user string) (compose.Runnable[map[string]any, *schema.Message], error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	return chain.Compile(ctx)
}

// GetChatModel returns the underlying chat model.
func (s *Service) GetChatModel() model.ChatModel {
	return s.chatModel
}
