package workflow

import (
	"time"

	"github.com/google/uuid"
)

// Session carries the caller's API key, chosen model, and the last response.
// It is an explicit value passed to each workflow call, never ambient state,
// so concurrent sessions stay independent. Nothing in it is persisted.
type Session struct {
	ID           string    `json:"id"`
	APIKey       string    `json:"-"`
	Model        string    `json:"model"`
	LastResponse string    `json:"last_response,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSession creates a session for one API key and model choice.
func NewSession(apiKey, model string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		APIKey:    apiKey,
		Model:     model,
		UpdatedAt: time.Now(),
	}
}
