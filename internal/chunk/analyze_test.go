package chunk

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devassist/internal/groq"
)

// recordingLLM captures every completion request.
type recordingLLM struct {
	requests []groq.CompletionRequest
	response string
	failOn   int // 1-based index of a request to fail; 0 = never
}

func (r *recordingLLM) Complete(_ context.Context, req groq.CompletionRequest) (*groq.Completion, error) {
	r.requests = append(r.requests, req)
	if r.failOn == len(r.requests) {
		return nil, &groq.NetworkError{Err: fmt.Errorf("boom")}
	}
	return &groq.Completion{Content: r.response, Model: req.Model}, nil
}

func TestAnalyzeSinglePass(t *testing.T) {
	llm := &recordingLLM{response: "report"}

	result, err := Analyze(context.Background(), llm, Params{
		Model:          "test-model",
		Template:       "review this",
		Content:        "tiny snippet",
		TokenThreshold: 6000,
		ChunkTokens:    6000,
	})
	require.NoError(t, err)

	assert.Equal(t, "report", result.Content)
	require.Len(t, llm.requests, 1)
	assert.Equal(t, "review this", llm.requests[0].SystemPrompt)
	assert.Equal(t, "tiny snippet", llm.requests[0].UserContent)
}

func TestAnalyzeSinglePassPrependsRepoURL(t *testing.T) {
	llm := &recordingLLM{response: "report"}

	_, err := Analyze(context.Background(), llm, Params{
		Model:          "test-model",
		Template:       "review this",
		Content:        "digest",
		RepoURL:        "https://github.com/user/repo",
		TokenThreshold: 6000,
		ChunkTokens:    6000,
	})
	require.NoError(t, err)
	require.Len(t, llm.requests, 1)
	assert.Contains(t, llm.requests[0].UserContent, "https://github.com/user/repo")
	assert.Contains(t, llm.requests[0].UserContent, "digest")
}

func TestAnalyzeMapReduceCallCount(t *testing.T) {
	// ChunkTokens of 100 means 400-char chunks; 1200 chars -> 3 chunks,
	// so exactly 3 map calls plus 1 reduce call.
	llm := &recordingLLM{response: "partial"}
	content := strings.Repeat("a", 1200)

	_, err := Analyze(context.Background(), llm, Params{
		Model:          "test-model",
		Template:       "audit this",
		Content:        content,
		RepoURL:        "https://github.com/user/repo",
		TokenThreshold: 100,
		ChunkTokens:    100,
	})
	require.NoError(t, err)
	require.Len(t, llm.requests, 4)

	for i := 0; i < 3; i++ {
		assert.Contains(t, llm.requests[i].SystemPrompt, fmt.Sprintf("PART %d of 3", i+1))
		assert.Contains(t, llm.requests[i].SystemPrompt, "audit this")
	}

	reduce := llm.requests[3]
	assert.Contains(t, reduce.SystemPrompt, "Lead Tech Auditor")
	assert.Contains(t, reduce.UserContent, "PARTIAL FINDINGS")
	assert.Contains(t, reduce.UserContent, "partial")
}

func TestAnalyzeMapReduceChunkFailureIsMarked(t *testing.T) {
	llm := &recordingLLM{response: "partial", failOn: 2}
	content := strings.Repeat("b", 1200)

	_, err := Analyze(context.Background(), llm, Params{
		Model:          "test-model",
		Template:       "audit this",
		Content:        content,
		TokenThreshold: 100,
		ChunkTokens:    100,
	})
	require.NoError(t, err)

	// Failed chunk still counts toward the map phase; reduce happens once.
	require.Len(t, llm.requests, 4)
	assert.Contains(t, llm.requests[3].UserContent, "[Error analyzing chunk 2")
}
