package chunk

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/devassist/internal/groq"
	"github.com/devassist/internal/prompts"
)

// Completer is the subset of the Groq client the analysis needs.
type Completer interface {
	Complete(ctx context.Context, req groq.CompletionRequest) (*groq.Completion, error)
}

// Params describes one analysis run.
type Params struct {
	Model    string
	Template string // workflow prompt, used verbatim as the system prompt
	Content  string // code or digest under analysis
	RepoURL  string // empty for uploaded content

	// TokenThreshold switches to map/reduce above this estimated size.
	TokenThreshold int
	// ChunkTokens bounds the estimated size of each map-phase chunk.
	ChunkTokens int
}

const partialFindingSeparator = "\n\n=== PARTIAL FINDING ===\n"

// Analyze runs a single-pass completion for small content, and the
// map/reduce strategy for content above the token threshold. Map/reduce
// makes exactly N+1 completions for N chunks.
func Analyze(ctx context.Context, llm Completer, p Params) (*groq.Completion, error) {
	total := EstimateTokens(p.Content)

	if p.TokenThreshold <= 0 || total < p.TokenThreshold {
		log.Debug().Int("token_estimate", total).Msg("Running single-pass analysis")

		userContent := p.Content
		if p.RepoURL != "" {
			userContent = fmt.Sprintf("Repository URL: %s\n\n%s", p.RepoURL, p.Content)
		}
		return llm.Complete(ctx, groq.CompletionRequest{
			Model:        p.Model,
			SystemPrompt: p.Template,
			UserContent:  userContent,
		})
	}

	log.Info().
		Int("token_estimate", total).
		Int("threshold", p.TokenThreshold).
		Msg("Large content detected, switching to map/reduce")

	return mapReduce(ctx, llm, p)
}

// mapReduce summarizes each chunk independently, then combines the ordered
// summaries into one final report. A failed chunk contributes an error marker
// to the reduce input instead of aborting the run.
func mapReduce(ctx context.Context, llm Completer, p Params) (*groq.Completion, error) {
	chunks := Split(p.Content, p.ChunkTokens*4)
	total := len(chunks)

	partials := make([]string, 0, total)
	for i, part := range chunks {
		log.Debug().Int("chunk", i+1).Int("total", total).Msg("Analyzing chunk")

		result, err := llm.Complete(ctx, groq.CompletionRequest{
			Model:        p.Model,
			SystemPrompt: prompts.MapInstruction(p.Template, p.RepoURL, i+1, total),
			UserContent:  part,
		})
		if err != nil {
			log.Error().Err(err).Int("chunk", i+1).Msg("Chunk analysis failed")
			partials = append(partials, fmt.Sprintf("[Error analyzing chunk %d: %v]", i+1, err))
			continue
		}
		partials = append(partials, result.Content)
	}

	log.Debug().Int("chunks", total).Msg("Synthesizing final report")

	combined := strings.Join(partials, partialFindingSeparator)
	return llm.Complete(ctx, groq.CompletionRequest{
		Model:        p.Model,
		SystemPrompt: prompts.ReduceSystem(p.RepoURL),
		UserContent:  prompts.ReduceInstruction(p.Template, p.RepoURL, combined, total),
	})
}
