package pkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const mistralFallbackModel = "Mistral-7B-Demo-Fallback"

// MistralBackend posts to the locally hosted Mistral 7B service. Complex
// questions can take minutes, so the timeout is much longer than the
// fine-tuned service's. A failure classified as a plain network error (not a
// timeout, not an HTTP status error) gets exactly one retry after a short
// pause; ultimate failure degrades to a demo reply that embeds the error.
type MistralBackend struct {
	client     *http.Client
	url        string
	retryDelay time.Duration
}

func NewMistralBackend(url string, timeout, retryDelay time.Duration) *MistralBackend {
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if retryDelay == 0 {
		retryDelay = 2 * time.Second
	}
	return &MistralBackend{
		client:     &http.Client{Timeout: timeout},
		url:        url,
		retryDelay: retryDelay,
	}
}

func (b *MistralBackend) Generate(ctx context.Context, prompt string, _ []Turn, _ bool) (*Reply, error) {
	reply, err := b.call(ctx, prompt)
	if err == nil {
		return reply, nil
	}

	var berr *BackendError
	if errors.As(err, &berr) && berr.Kind == ErrKindNetwork {
		select {
		case <-ctx.Done():
		case <-time.After(b.retryDelay):
			reply, retryErr := b.call(ctx, prompt)
			if retryErr == nil {
				return reply, nil
			}
			err = retryErr
		}
	}

	return b.demoReply(prompt, err), nil
}

func (b *MistralBackend) call(ctx context.Context, prompt string) (*Reply, error) {
	return postLocalModel(ctx, b.client, b.url, localRequest{
		Message:   prompt,
		MaxTokens: 1024,
	}, "Mistral model service", "Mistral-7B-Instruct-v0.3")
}

func (b *MistralBackend) demoReply(prompt string, cause error) *Reply {
	content := fmt.Sprintf("**Mistral 7B Model Demo Response:**\n\n"+
		"The Mistral 7B model service is still loading or has not been started.\n\n"+
		"**Your message:** %q\n\n"+
		"**Demo answer:** This is a temporary reply standing in for your Mistral 7B model. "+
		"To use the real model:\n\n"+
		"1. Start the model service: `model_service/start_ollama_mistral.bat`\n"+
		"2. Make sure it is listening on port 8002\n"+
		"3. Send this message again\n\n"+
		"**Error detail:** %v\n\n"+
		"*Check whether the service is up: http://localhost:8002/health*",
		prompt, cause)
	return &Reply{Content: content, Model: mistralFallbackModel, Degraded: true}
}
