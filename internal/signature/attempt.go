// File: internal/signature/attempt.go
package signature

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// Names of the derived payload fields.
const (
	MarketingConsentField = "marketing_comms_consent"
	ShareInfoField        = "share_info"
	PublicField           = "public"
	notPublicInput        = "not_public"
)

// jsonAPI sorts object keys so request bodies are reproducible.
var jsonAPI = jsoniter.Config{
	EscapeHTML:  false,
	SortMapKeys: true,
}.Froze()

// Payload is the flat JSON object posted to the signature endpoint. Values
// are strings, except for the derived flags which may be booleans.
type Payload map[string]any

// Attempt is one fully assembled submission. A fresh Attempt, with a fresh
// Payload, is built for every click.
type Attempt struct {
	ID         uuid.UUID
	PetitionID string
	CSRFToken  string
	Endpoint   string
	Referer    string
	Payload    Payload
}

// Endpoint returns the signature URL for a petition under baseURL. The id is
// always a single path segment.
func Endpoint(baseURL, petitionID string) (string, error) {
	switch petitionID {
	case "", ".", "..":
		return "", fmt.Errorf("invalid petition ID %q", petitionID)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	return base.JoinPath("api-proxy", "-", "signatures", url.PathEscape(petitionID)).String(), nil
}

// Headers returns the request headers the host's own front end sends.
func (a *Attempt) Headers() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	h.Set("X-CSRF-Token", a.CSRFToken)
	h.Set("X-Requested-With", "XMLHttpRequest")
	if a.Referer != "" {
		h.Set("Referer", a.Referer)
	}
	return h
}

// Body serializes the payload as a single JSON object.
func (a *Attempt) Body() ([]byte, error) {
	body, err := jsonAPI.Marshal(a.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode signature payload: %w", err)
	}
	return body, nil
}

// NewRequest builds the POST request for the attempt.
func (a *Attempt) NewRequest(ctx context.Context) (*http.Request, error) {
	body, err := a.Body()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create signature request: %w", err)
	}
	req.Header = a.Headers()
	return req, nil
}
