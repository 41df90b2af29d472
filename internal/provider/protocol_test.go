package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreateChatCompletion(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, want test-model", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Errorf("len(messages) = %d, want 2", len(req.Messages))
		}

		resp := map[string]interface{}{
			"id":    "cmpl-1",
			"model": "test-model",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": "[]"},
					"finish_reason": "stop",
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "sk-test", 5*time.Second)
	resp, err := p.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model: "test-model",
		Messages: []ChatMessage{
			{Role: "system", Content: "You are a helpful assistant"},
			{Role: "user", Content: "Generate ideas"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer sk-test")
	}
	content, err := resp.Content()
	if err != nil {
		t.Fatalf("Content failed: %v", err)
	}
	if content != "[]" {
		t.Errorf("content = %q, want %q", content, "[]")
	}
}

func TestCreateChatCompletion_MissingModel(t *testing.T) {
	p := NewOpenAIProvider("http://localhost:1", "", time.Second)
	_, err := p.CreateChatCompletion(context.Background(), &ChatCompletionRequest{})
	if err == nil {
		t.Fatal("Expected error for missing model")
	}
}

func TestCreateChatCompletion_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "", time.Second)
	_, err := p.CreateChatCompletion(context.Background(), &ChatCompletionRequest{Model: "m"})
	if err == nil {
		t.Fatal("Expected error for non-200 status")
	}
}

func TestContent_NoChoices(t *testing.T) {
	resp := &ChatCompletionResponse{}
	if _, err := resp.Content(); err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

func TestGetModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("path = %q, want /models", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"id": "model-a"}, {"id": "model-b"}},
		})
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "", time.Second)
	models, err := p.GetModels(context.Background())
	if err != nil {
		t.Fatalf("GetModels failed: %v", err)
	}
	if len(models) != 2 || models[0].ID != "model-a" {
		t.Fatalf("unexpected models: %+v", models)
	}
}
