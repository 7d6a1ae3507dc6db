package pkg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// localRequest is the request body both local model services accept.
type localRequest struct {
	Message   string `json:"message"`
	MaxLength int    `json:"max_length,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// localResponse is the response body both local model services produce.
type localResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
	Error    string `json:"error,omitempty"`
}

const customFallbackModel = "CodeParrot-Demo-Fallback"

// CustomBackend posts to the locally hosted fine-tuned FLAN-T5-CodeParrot
// service. The service is an optional local process that may not be running,
// so instead of failing the request this backend degrades to a demo reply
// telling the user how to start it.
type CustomBackend struct {
	client *http.Client
	url    string
}

func NewCustomBackend(url string, timeout time.Duration) *CustomBackend {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &CustomBackend{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

func (b *CustomBackend) Generate(ctx context.Context, prompt string, _ []Turn, _ bool) (*Reply, error) {
	reply, err := postLocalModel(ctx, b.client, b.url, localRequest{
		Message:   prompt,
		MaxLength: 512,
	}, "T5 model service", "T5-Fine-tuned")
	if err != nil {
		return b.demoReply(prompt), nil
	}
	return reply, nil
}

func (b *CustomBackend) demoReply(prompt string) *Reply {
	content := fmt.Sprintf("**CodeParrot Model Demo Response:**\n\n"+
		"The FLAN-T5-CodeParrot model service is still loading or has not been started.\n\n"+
		"**Your message:** %q\n\n"+
		"**Demo answer:** This is a temporary reply standing in for your CodeParrot model. "+
		"To use the real model:\n\n"+
		"1. Start the model service: `model_service/start_model.bat`\n"+
		"2. Make sure it is listening on port 8000\n"+
		"3. Send this message again\n\n"+
		"*Demo replies are replaced with real model output automatically once the CodeParrot service is running.*",
		prompt)
	return &Reply{Content: content, Model: customFallbackModel, Degraded: true}
}

// postLocalModel sends a generation request to a local model service and
// validates the response shape. All failures come back as *BackendError.
func postLocalModel(ctx context.Context, client *http.Client, url string, payload localRequest, service, defaultModel string) (*Reply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &BackendError{Kind: ErrKindBadPayload, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &BackendError{Kind: ErrKindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &BackendError{Kind: classifyTransportError(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &BackendError{
			Kind: ErrKindHTTPStatus,
			Err:  fmt.Errorf("%s error (%d): %s", service, resp.StatusCode, bytes.TrimSpace(detail)),
		}
	}

	var out localResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &BackendError{Kind: ErrKindBadPayload, Err: fmt.Errorf("decoding %s response: %w", service, err)}
	}
	if out.Response == "" {
		return nil, &BackendError{
			Kind: ErrKindBadPayload,
			Err:  fmt.Errorf("invalid response structure from %s", service),
		}
	}

	model := out.Model
	if model == "" {
		model = defaultModel
	}
	return &Reply{Content: out.Response, Model: model}, nil
}
