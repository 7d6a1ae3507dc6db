package pkg

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCustomBackendSuccess(t *testing.T) {
	var got localRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(localResponse{Response: "def add(a, b): return a + b", Model: "T5-Fine-tuned"})
	}))
	defer srv.Close()

	backend := NewCustomBackend(srv.URL, time.Second)
	reply, err := backend.Generate(context.Background(), "write an add function", nil, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got.Message != "write an add function" {
		t.Fatalf("forwarded message = %q", got.Message)
	}
	if got.MaxLength != 512 {
		t.Fatalf("max_length = %d, want 512", got.MaxLength)
	}
	if got.MaxTokens != 0 {
		t.Fatalf("max_tokens leaked into fine-tuned request: %d", got.MaxTokens)
	}
	if reply.Degraded {
		t.Fatal("successful reply marked degraded")
	}
	if reply.Content != "def add(a, b): return a + b" {
		t.Fatalf("content = %q", reply.Content)
	}
	if reply.Model != "T5-Fine-tuned" {
		t.Fatalf("model = %q", reply.Model)
	}
}

func TestCustomBackendUnreachableDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	backend := NewCustomBackend(url, time.Second)
	reply, err := backend.Generate(context.Background(), "hello there", nil, false)
	if err != nil {
		t.Fatalf("degraded path must not error: %v", err)
	}

	if !reply.Degraded {
		t.Fatal("reply not marked degraded")
	}
	if reply.Model != customFallbackModel {
		t.Fatalf("model = %q, want %q", reply.Model, customFallbackModel)
	}
	if !strings.Contains(reply.Content, "hello there") {
		t.Fatal("demo reply does not echo the user's message")
	}
	if !strings.Contains(reply.Content, "model_service/start_model.bat") {
		t.Fatal("demo reply missing the start instruction")
	}
	if !strings.Contains(reply.Content, "8000") {
		t.Fatal("demo reply missing the service port")
	}
}

func TestCustomBackendServerErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	backend := NewCustomBackend(srv.URL, time.Second)
	reply, err := backend.Generate(context.Background(), "hello", nil, false)
	if err != nil {
		t.Fatalf("degraded path must not error: %v", err)
	}
	if !reply.Degraded || reply.Model != customFallbackModel {
		t.Fatalf("expected demo fallback, got model %q degraded=%v", reply.Model, reply.Degraded)
	}
}

func TestCustomBackendMalformedResponseDegrades(t *testing.T) {
	cases := map[string]string{
		"not json":       "<html>oops</html>",
		"missing answer": `{"model":"T5-Fine-tuned"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			backend := NewCustomBackend(srv.URL, time.Second)
			reply, err := backend.Generate(context.Background(), "hello", nil, false)
			if err != nil {
				t.Fatalf("degraded path must not error: %v", err)
			}
			if !reply.Degraded {
				t.Fatal("reply not marked degraded")
			}
		})
	}
}

func TestPostLocalModelDefaultsModelName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(localResponse{Response: "answer"})
	}))
	defer srv.Close()

	client := &http.Client{Timeout: time.Second}
	reply, err := postLocalModel(context.Background(), client, srv.URL, localRequest{Message: "q"}, "T5 model service", "T5-Fine-tuned")
	if err != nil {
		t.Fatalf("postLocalModel: %v", err)
	}
	if reply.Model != "T5-Fine-tuned" {
		t.Fatalf("model = %q, want default", reply.Model)
	}
}
