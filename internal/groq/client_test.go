package groq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTextGenerationModel(t *testing.T) {
	cases := map[string]bool{
		"llama-3.3-70b-versatile": true,
		"openai/gpt-oss-120b":     true,
		"whisper-large-v3":        false,
		"playai-tts":              false,
		"distil-whisper-large-v3": false,
		"mixtral-8x7b-32768":      true,
		"Whisper-Large":           false,
	}
	for model, want := range cases {
		if got := isTextGenerationModel(model); got != want {
			t.Errorf("isTextGenerationModel(%q) = %v, want %v", model, got, want)
		}
	}
}

func TestListModelsFiltersAndPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"id":"zeta-chat"},
			{"id":"whisper-large-v3"},
			{"id":"alpha-chat"},
			{"id":"playai-tts"},
			{"id":"mid-chat"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)

	// Provider order preserved, non-text models dropped.
	assert.Equal(t, []string{"zeta-chat", "alpha-chat", "mid-chat"}, models)
}

func TestListModelsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.ListModels(context.Background())

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "expected AuthError, got %v", err)
}

func TestListModelsRateLimitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.ListModels(context.Background())

	var rateErr *RateLimitError
	require.True(t, errors.As(err, &rateErr), "expected RateLimitError, got %v", err)
}

func TestListModelsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.ListModels(context.Background())

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "expected NetworkError, got %v", err)
}

func TestCompleteParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"model": "test-model",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "looks good"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	result, err := client.Complete(context.Background(), CompletionRequest{
		Model:        "test-model",
		SystemPrompt: "be terse",
		UserContent:  "print('hi')",
	})
	require.NoError(t, err)

	assert.Equal(t, "looks good", result.Content)
	assert.Equal(t, "test-model", result.Model)
	assert.Equal(t, 15, result.Usage.TotalTokens)
	assert.Greater(t, result.Elapsed.Nanoseconds(), int64(0))
}

func TestCompleteClassifiesRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Complete(context.Background(), CompletionRequest{
		Model:        "test-model",
		SystemPrompt: "s",
		UserContent:  "u",
	})

	var rateErr *RateLimitError
	require.True(t, errors.As(err, &rateErr), "expected RateLimitError, got %v", err)
}

func TestClassifyCompletionError(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"API returned unexpected status code: 401 invalid api key", "auth"},
		{"API returned unexpected status code: 429 rate_limit_exceeded", "rate"},
		{"connection refused", "network"},
	}
	for _, tc := range cases {
		err := classifyCompletionError(errors.New(tc.msg))
		var authErr *AuthError
		var rateErr *RateLimitError
		var netErr *NetworkError
		switch tc.want {
		case "auth":
			assert.True(t, errors.As(err, &authErr), "expected AuthError for %q", tc.msg)
		case "rate":
			assert.True(t, errors.As(err, &rateErr), "expected RateLimitError for %q", tc.msg)
		case "network":
			assert.True(t, errors.As(err, &netErr), "expected NetworkError for %q", tc.msg)
		}
	}
}

func TestUsageFromGenerationInfo(t *testing.T) {
	u := usageFromGenerationInfo(map[string]any{
		"PromptTokens":     10,
		"CompletionTokens": 5,
	})
	assert.Equal(t, 10, u.PromptTokens)
	assert.Equal(t, 5, u.CompletionTokens)
	assert.Equal(t, 15, u.TotalTokens)
}
