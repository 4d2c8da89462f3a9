// File: internal/hoststate/locator.go
package hoststate

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/petition-cli/internal/dom"
)

// ErrNoHostState is returned when the page carries neither state container.
// It is the only condition that stops the pipeline before anything is wired.
var ErrNoHostState = errors.New("could not locate client or app data")

// jsonAPI keeps numbers as json.Number so ids survive untouched.
var jsonAPI = jsoniter.Config{
	UseNumber:              true,
	EscapeHTML:             true,
	ValidateJsonRawMessage: true,
}.Froze()

// Container names an embedded script element and the variant its JSON has.
type Container struct {
	ID      string
	Variant Variant
}

// Containers lists the state containers in priority order.
var Containers = []Container{
	{ID: "clientData", Variant: VariantClient},
	{ID: "app-data", Variant: VariantApp},
}

// ParseError reports a container whose text is not a JSON object.
type ParseError struct {
	Container string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s JSON: %v", e.Container, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Locate finds the host state in the document. The first container present in
// priority order wins; a parse failure of that container is returned as a *ParseError.
func Locate(doc *dom.Document, logger *zap.Logger) (*State, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("hoststate")

	var found *State
	for _, c := range Containers {
		node := doc.QueryOne(fmt.Sprintf("//script[@id='%s']", c.ID))
		if node == nil {
			continue
		}
		if found != nil {
			logger.Warn("Page exposes more than one host state container; ignoring the lower priority one.",
				zap.String("used", found.source), zap.String("ignored", c.ID))
			continue
		}

		state, err := Parse(c, dom.TextContent(node))
		if err != nil {
			return nil, err
		}
		logger.Info("Located host state.", zap.String("container", c.ID), zap.Stringer("variant", c.Variant))
		found = state
	}

	if found == nil {
		return nil, ErrNoHostState
	}
	return found, nil
}

// Parse decodes the text of a container into a State.
func Parse(c Container, text string) (*State, error) {
	raw := []byte(strings.TrimSpace(text))
	var tree map[string]any
	if err := jsonAPI.Unmarshal(raw, &tree); err != nil {
		return nil, &ParseError{Container: c.ID, Err: err}
	}
	if tree == nil {
		return nil, &ParseError{Container: c.ID, Err: errors.New("document is not a JSON object")}
	}
	return &State{
		variant: c.Variant,
		source:  c.ID,
		tree:    tree,
		raw:     raw,
	}, nil
}
