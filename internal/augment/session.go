// File: internal/augment/session.go
package augment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/petition-cli/internal/address"
	"github.com/xkilldash9x/petition-cli/internal/config"
	"github.com/xkilldash9x/petition-cli/internal/dom"
	"github.com/xkilldash9x/petition-cli/internal/hoststate"
	"github.com/xkilldash9x/petition-cli/internal/locale"
	"github.com/xkilldash9x/petition-cli/internal/page"
	"github.com/xkilldash9x/petition-cli/internal/signature"
)

// renamedFields maps the host's camel-case input names to the names the
// signature API expects.
var renamedFields = [][2]string{
	{"firstName", "first_name"},
	{"lastName", "last_name"},
}

// Deps are the collaborators a Session is built from.
type Deps struct {
	Client    signature.Doer
	Navigator signature.Navigator
	Notifier  signature.Notifier
	// Table defaults to the built-in locale table.
	Table   *locale.Table
	Submit  config.SubmitConfig
	Preview func(ctx context.Context, a *signature.Attempt)
	Logger  *zap.Logger
}

// Session is the augmented page. It owns the host state for the page's
// lifetime and is passed explicitly to everything that needs it.
type Session struct {
	Page  *page.Page
	State *hoststate.State

	// Address and Signature are nil when their anchors are missing.
	Address   *address.Controller
	Signature *signature.Assembler

	logger *zap.Logger
}

// Attach locates the host state and wires the page. A page without host
// state gets nothing attached and ErrNoHostState is returned. Missing
// anchors only disable the feature that needs them.
func Attach(ctx context.Context, p *page.Page, deps Deps) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("augment")

	state, err := hoststate.Locate(p.Document, logger)
	if err != nil {
		if errors.Is(err, hoststate.ErrNoHostState) {
			logger.Error("Could not locate client or app data; nothing attached.", zap.String("url", p.URL))
		}
		return nil, err
	}

	s := &Session{Page: p, State: state, logger: logger}
	s.normalizeFieldNames()

	ctrl := address.NewController(p.Document, deps.Table, logger)
	if err := ctrl.Wire(); err == nil {
		s.Address = ctrl
	}

	asm := signature.NewAssembler(p.Document, state, deps.Client, deps.Navigator, deps.Notifier, signature.Options{
		BaseURL:        deps.Submit.BaseURL,
		PageURL:        p.URL,
		DryRun:         deps.Submit.DryRun,
		DedupeInFlight: deps.Submit.DedupeInFlight,
		Preview:        deps.Preview,
	}, logger)
	if err := asm.Wire(); err == nil {
		s.Signature = asm
	}

	logger.Info("Page augmented.",
		zap.Stringer("variant", state.Variant()),
		zap.Bool("address", s.Address != nil),
		zap.Bool("signature", s.Signature != nil))
	return s, nil
}

func (s *Session) normalizeFieldNames() {
	for _, pair := range renamedFields {
		node := s.Page.Document.QueryOne(fmt.Sprintf("//input[@name='%s']", pair[0]))
		if node == nil {
			continue
		}
		dom.SetAttr(node, "name", pair[1])
		s.logger.Debug("Renamed form field.", zap.String("from", pair[0]), zap.String("to", pair[1]))
	}
}

// ErrSigningUnavailable is returned by ClickSubmit when the page has no
// submit button to take over.
var ErrSigningUnavailable = errors.New("signing is unavailable on this page")

// ClickSubmit clicks the page's submit button, which runs the signature
// pipeline synchronously.
func (s *Session) ClickSubmit(ctx context.Context) error {
	if s.Signature == nil {
		return ErrSigningUnavailable
	}
	button := s.Page.Document.QueryOne(signature.SubmitSelector)
	if button == nil {
		return ErrSigningUnavailable
	}
	s.Page.Document.Click(ctx, button)
	return nil
}
