package pkg

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	mathSystemPrompt = "You are a helpful AI assistant specialized in mathematics. " +
		"Provide clear, step-by-step solutions to mathematical problems and explain concepts thoroughly."
	generalSystemPrompt = "You are a helpful AI assistant. " +
		"Provide clear, accurate, and helpful responses to user questions."

	// maxContextTurns caps how many prior entries are sent to the API.
	maxContextTurns = 10
)

// OpenAIBackend answers through the hosted completion API. It is assumed
// reliable and billed, so it carries no demo fallback: provider failures
// surface to the caller as errors.
type OpenAIBackend struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAIBackend(apiKey, model string, maxTokens int, temperature float32) *OpenAIBackend {
	return &OpenAIBackend{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

func (b *OpenAIBackend) Generate(ctx context.Context, prompt string, history []Turn, mathHint bool) (*Reply, error) {
	system := generalSystemPrompt
	if mathHint {
		system = mathSystemPrompt
	}
	if len(history) > maxContextTurns {
		history = history[len(history)-maxContextTurns:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	completion, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    messages,
		MaxTokens:   b.maxTokens,
		Temperature: b.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return &Reply{Content: "Sorry, I could not generate a response.", Model: b.model}, nil
	}
	return &Reply{Content: completion.Choices[0].Message.Content, Model: b.model}, nil
}
