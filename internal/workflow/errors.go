package workflow

import "fmt"

// ConfigError indicates a missing API key or model selection.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("workflow: missing configuration: %s", e.Missing)
}

// InputError indicates the caller provided zero or multiple input sources,
// or an otherwise unusable input.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("workflow: invalid input: %s", e.Reason)
}
