package ingest

import "fmt"

// CloneError indicates the repository could not be cloned (bad URL, network
// failure, or a repository that requires authentication).
type CloneError struct {
	URL string
	Err error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("ingest: cloning %s: %v", e.URL, e.Err)
}

func (e *CloneError) Unwrap() error { return e.Err }

// RefNotFoundError indicates a requested branch is absent on the remote.
type RefNotFoundError struct {
	Ref string
}

func (e *RefNotFoundError) Error() string {
	return fmt.Sprintf("ingest: branch not found on remote: %s", e.Ref)
}

// IngestError indicates the digesting tool failed or produced empty output.
type IngestError struct {
	Reason string
	Err    error
}

func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingest: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("ingest: %s", e.Reason)
}

func (e *IngestError) Unwrap() error { return e.Err }
