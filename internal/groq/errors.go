package groq

import "fmt"

// AuthError indicates the API key was rejected by the provider.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("groq: authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RateLimitError indicates the provider throttled the request. It is surfaced
// distinctly so callers can show a retry hint; no retry happens here.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("groq: rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// NetworkError covers transport failures and unexpected provider responses.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("groq: request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
