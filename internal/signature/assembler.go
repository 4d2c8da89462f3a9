// File: internal/signature/assembler.go
package signature

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"

	"github.com/xkilldash9x/petition-cli/internal/dom"
	"github.com/xkilldash9x/petition-cli/internal/hoststate"
	"github.com/xkilldash9x/petition-cli/internal/resolver"
)

const maxResponseBytes = 1 << 20

// Anchors on the host page.
var (
	FormSelectors = []string{
		"//form[@name='sign-form']",
		"//form[contains(concat(' ', normalize-space(@class), ' '), ' sign ')]",
	}
	SubmitSelector = "//button[@type='submit']"
)

// fallbackFields are filled from host state when the form leaves them empty.
var fallbackFields = []resolver.Field{
	resolver.PetitionID,
	resolver.FirstName,
	resolver.LastName,
	resolver.City,
	resolver.StateCode,
	resolver.CountryCode,
	resolver.Email,
}

// Doer sends HTTP requests. *http.Client and *network.Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Navigator moves the page to the URL the host redirects a successful signer to.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// Notifier shows a failure to the user.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Options configures an Assembler.
type Options struct {
	// BaseURL is the scheme and host of the signature endpoint.
	BaseURL string
	// PageURL is sent as the Referer.
	PageURL string
	// DryRun prepares attempts and hands them to Preview without sending.
	DryRun bool
	// DedupeInFlight shares one request between concurrent attempts for the
	// same petition. Off by default: a double click sends twice.
	DedupeInFlight bool
	Preview        func(ctx context.Context, a *Attempt)
}

// Result is the outcome of a sent, or previewed, attempt.
type Result struct {
	Attempt    *Attempt
	RedirectTo string
	DryRun     bool
	// Shared is set when the response was shared with a concurrent attempt.
	Shared bool
}

// Assembler builds and sends signature requests for one page.
type Assembler struct {
	doc      *dom.Document
	state    *hoststate.State
	client   Doer
	nav      Navigator
	notifier Notifier
	opts     Options
	logger   *zap.Logger

	inflight singleflight.Group
}

// NewAssembler creates an Assembler. state is the page's located host state.
func NewAssembler(doc *dom.Document, state *hoststate.State, client Doer, nav Navigator, notifier Notifier, opts Options, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Assembler{
		doc:      doc,
		state:    state,
		client:   client,
		nav:      nav,
		notifier: notifier,
		opts:     opts,
		logger:   logger.Named("signature"),
	}
}

// Wire takes over the page's submit button. The native submission is
// suppressed and Submit runs instead.
func (a *Assembler) Wire() error {
	button := a.doc.QueryOne(SubmitSelector)
	if button == nil {
		err := dom.NewElementNotFoundError(SubmitSelector)
		a.logger.Warn("Could not locate submit button; signing unavailable.", zap.Error(err))
		return err
	}
	a.doc.AddEventListener(button, "click", func(ctx context.Context, ev *dom.Event) {
		ev.PreventDefault()
		ev.StopPropagation()
		// Failures have already been reported.
		_, _ = a.Submit(ctx)
	})
	a.logger.Debug("Submit button wired.")
	return nil
}

// Submit runs one attempt end to end. Every failure is logged, shown through
// the Notifier, and returned. Nothing is retried.
func (a *Assembler) Submit(ctx context.Context) (*Result, error) {
	attempt, err := a.Prepare()
	if err != nil {
		a.report(ctx, nil, err)
		return nil, err
	}
	logger := a.logger.With(zap.Stringer("attempt", attempt.ID), zap.String("petition_id", attempt.PetitionID))

	if a.opts.DryRun {
		logger.Info("Dry run; signature request not sent.", zap.String("endpoint", attempt.Endpoint))
		if a.opts.Preview != nil {
			a.opts.Preview(ctx, attempt)
		}
		return &Result{Attempt: attempt, DryRun: true}, nil
	}

	res, err := a.dispatch(ctx, attempt)
	if err != nil {
		a.report(ctx, attempt, err)
		return nil, err
	}
	logger.Info("Signature accepted.", zap.String("redirect_to", res.RedirectTo), zap.Bool("shared", res.Shared))

	if a.nav != nil {
		if err := a.nav.Navigate(ctx, res.RedirectTo); err != nil {
			logger.Error("Failed to follow signature redirect.", zap.Error(err))
			return res, fmt.Errorf("failed to navigate to %s: %w", res.RedirectTo, err)
		}
	}
	return res, nil
}

func (a *Assembler) dispatch(ctx context.Context, attempt *Attempt) (*Result, error) {
	if !a.opts.DedupeInFlight {
		return a.Send(ctx, attempt)
	}
	v, err, shared := a.inflight.Do(attempt.PetitionID, func() (interface{}, error) {
		return a.Send(ctx, attempt)
	})
	if err != nil {
		return nil, err
	}
	res := *v.(*Result)
	res.Shared = shared
	return &res, nil
}

// Prepare resolves the token and petition id and assembles the payload. It
// reads the DOM but never changes it. An empty token or id counts as missing.
func (a *Assembler) Prepare() (*Attempt, error) {
	token, _ := resolver.Resolve(a.state, resolver.CSRFToken)
	if token == "" {
		return nil, ErrMissingCSRFToken
	}
	petitionID, _ := resolver.Resolve(a.state, resolver.PetitionID)
	if petitionID == "" {
		return nil, ErrMissingPetitionID
	}
	payload, err := a.buildPayload()
	if err != nil {
		return nil, err
	}
	endpoint, err := Endpoint(a.opts.BaseURL, petitionID)
	if err != nil {
		return nil, err
	}
	return &Attempt{
		ID:         uuid.New(),
		PetitionID: petitionID,
		CSRFToken:  token,
		Endpoint:   endpoint,
		Referer:    a.opts.PageURL,
		Payload:    payload,
	}, nil
}

func (a *Assembler) buildPayload() (Payload, error) {
	form, err := a.doc.FindFirst(FormSelectors...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormNotFound, err)
	}

	payload := Payload{}
	// Later entries overwrite earlier ones, as when a form data set is
	// flattened into an object.
	for _, e := range dom.CollectForm(form).Entries() {
		payload[e.Name] = e.Value
	}

	for _, field := range fallbackFields {
		if current, _ := payload[string(field)].(string); current != "" {
			continue
		}
		if v, ok := resolver.Resolve(a.state, field); ok {
			payload[string(field)] = v
		}
	}

	payload[MarketingConsentField] = a.marketingConsent()
	payload[ShareInfoField] = a.checkedOr(ShareInfoField, false)
	if notPublic := a.input(notPublicInput); notPublic != nil {
		payload[PublicField] = !dom.Checked(notPublic)
	} else {
		payload[PublicField] = false
	}
	return payload, nil
}

// marketingConsent is the value of the checked consent input. Only the
// literals "true" and "false" become booleans; anything else is sent as is.
func (a *Assembler) marketingConsent() any {
	for _, n := range a.doc.QueryAll(fmt.Sprintf("//input[@name='%s']", MarketingConsentField)) {
		if !dom.Checked(n) {
			continue
		}
		switch v := dom.Value(n); v {
		case "true":
			return true
		case "false":
			return false
		default:
			return v
		}
	}
	return false
}

func (a *Assembler) checkedOr(name string, def bool) bool {
	if n := a.input(name); n != nil {
		return dom.Checked(n)
	}
	return def
}

func (a *Assembler) input(name string) *html.Node {
	return a.doc.QueryOne(fmt.Sprintf("//input[@name='%s']", name))
}

// Send posts the attempt and interprets the response. A missing
// redirect_to, or a body that is not JSON, is a *SubmissionError carrying
// the raw body.
func (a *Assembler) Send(ctx context.Context, attempt *Attempt) (*Result, error) {
	req, err := attempt.NewRequest(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Sending signature request.",
		zap.Stringer("attempt", attempt.ID), zap.String("endpoint", attempt.Endpoint))

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var reply map[string]any
	if err := jsonAPI.Unmarshal(body, &reply); err != nil {
		return nil, &SubmissionError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Err:        fmt.Errorf("response is not JSON: %w", err),
		}
	}
	redirect, _ := reply["redirect_to"].(string)
	if redirect == "" {
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return &Result{Attempt: attempt, RedirectTo: redirect}, nil
}

func (a *Assembler) report(ctx context.Context, attempt *Attempt, err error) {
	fields := []zap.Field{zap.Error(err)}
	if attempt != nil {
		fields = append(fields, zap.Stringer("attempt", attempt.ID))
	}
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		a.logger.Warn("Form submission failed.", fields...)
	} else {
		a.logger.Error("Cannot submit signature.", fields...)
	}
	if a.notifier != nil {
		a.notifier.Notify(ctx, userMessage(err))
	}
}
