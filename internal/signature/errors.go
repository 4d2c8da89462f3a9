// File: internal/signature/errors.go
package signature

import (
	"errors"
	"fmt"
)

// Resolution failures. Each aborts the attempt before any request is sent.
var (
	ErrMissingCSRFToken  = errors.New("could not locate CSRF token")
	ErrMissingPetitionID = errors.New("could not locate petition ID")
	ErrFormNotFound      = errors.New("could not load form data")
)

// SubmissionError is a failed exchange with the signature endpoint: either
// the transport failed (Err set) or the host answered without a redirect
// (Body holds the raw response).
type SubmissionError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.Err != nil && e.Body != "":
		return fmt.Sprintf("signature request failed: %v: %s", e.Err, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("signature request failed: %v", e.Err)
	default:
		return fmt.Sprintf("signature rejected (status %d): %s", e.StatusCode, e.Body)
	}
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// userMessage is what the notifier shows: the raw response when there is
// one, otherwise the error text.
func userMessage(err error) string {
	var subErr *SubmissionError
	if errors.As(err, &subErr) && subErr.Err == nil && subErr.Body != "" {
		return subErr.Body
	}
	return err.Error()
}
