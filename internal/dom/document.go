// File: internal/dom/document.go
package dom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Listener handles an event dispatched to a node.
type Listener func(ctx context.Context, ev *Event)

// Event is a synchronous DOM event. Listeners run on the dispatching goroutine.
type Event struct {
	Type   string
	Target *html.Node

	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault suppresses the element's native action (navigation, form submission).
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// StopPropagation stops the event from bubbling to ancestors.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Document is an in-memory HTML document with an event dispatcher.
//
// Queries are XPath expressions evaluated with htmlquery. Mutations and
// dispatch must happen on one goroutine at a time; the mutex only guards the
// listener registry, which may be read by a dispatch running listeners that
// register further listeners.
type Document struct {
	root   *html.Node
	logger *zap.Logger

	mu        sync.Mutex
	listeners map[*html.Node]map[string][]Listener
}

// NewDocument wraps an already parsed tree.
func NewDocument(root *html.Node, logger *zap.Logger) *Document {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Document{
		root:      root,
		logger:    logger.Named("dom"),
		listeners: make(map[*html.Node]map[string][]Listener),
	}
}

// Parse reads an HTML document.
func Parse(r io.Reader, logger *zap.Logger) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}
	return NewDocument(root, logger), nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string, logger *zap.Logger) (*Document, error) {
	return Parse(strings.NewReader(markup), logger)
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// QueryOne returns the first node matching the XPath expression, or nil.
// An invalid expression is a programming error; it is logged and treated as no match.
func (d *Document) QueryOne(xpath string) *html.Node {
	node, err := htmlquery.Query(d.root, xpath)
	if err != nil {
		d.logger.Error("Invalid XPath expression.", zap.String("xpath", xpath), zap.Error(err))
		return nil
	}
	return node
}

// QueryAll returns every node matching the XPath expression in document order.
func (d *Document) QueryAll(xpath string) []*html.Node {
	nodes, err := htmlquery.QueryAll(d.root, xpath)
	if err != nil {
		d.logger.Error("Invalid XPath expression.", zap.String("xpath", xpath), zap.Error(err))
		return nil
	}
	return nodes
}

// FindFirst tries each selector in order and returns the first match.
func (d *Document) FindFirst(selectors ...string) (*html.Node, error) {
	for _, sel := range selectors {
		if node := d.QueryOne(sel); node != nil {
			return node, nil
		}
	}
	return nil, NewElementNotFoundError(strings.Join(selectors, " | "))
}

// AddEventListener registers fn for events of type typ targeting node or its descendants.
func (d *Document) AddEventListener(node *html.Node, typ string, fn Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	byType, ok := d.listeners[node]
	if !ok {
		byType = make(map[string][]Listener)
		d.listeners[node] = byType
	}
	byType[typ] = append(byType[typ], fn)
}

func (d *Document) listenersFor(node *html.Node, typ string) []Listener {
	d.mu.Lock()
	defer d.mu.Unlock()
	ls := d.listeners[node][typ]
	// Copy so listeners registered during dispatch don't fire for this event.
	return append([]Listener(nil), ls...)
}

// Dispatch fires an event at target and bubbles it up through its ancestors.
// The returned event reports whether the default action was prevented.
func (d *Document) Dispatch(ctx context.Context, target *html.Node, typ string) *Event {
	ev := &Event{Type: typ, Target: target}
	for node := target; node != nil; node = node.Parent {
		for _, fn := range d.listenersFor(node, typ) {
			fn(ctx, ev)
		}
		if ev.propagationStopped {
			break
		}
	}
	return ev
}

// Click dispatches a click event.
func (d *Document) Click(ctx context.Context, target *html.Node) *Event {
	return d.Dispatch(ctx, target, "click")
}

// ReplaceWithHTML parses markup in the context of node's parent, inserts the
// resulting nodes where node was, and detaches node along with its listeners.
func (d *Document) ReplaceWithHTML(node *html.Node, markup string) ([]*html.Node, error) {
	parent := node.Parent
	if parent == nil {
		return nil, fmt.Errorf("cannot replace a detached %q node", node.Data)
	}
	fragmentCtx := parent
	if fragmentCtx.Type != html.ElementNode {
		fragmentCtx = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	fragment, err := html.ParseFragment(strings.NewReader(markup), fragmentCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse replacement markup: %w", err)
	}
	for _, n := range fragment {
		parent.InsertBefore(n, node)
	}
	parent.RemoveChild(node)
	d.forget(node)
	return fragment, nil
}

// SetInnerHTML replaces node's children with the parsed markup.
func (d *Document) SetInnerHTML(node *html.Node, markup string) error {
	fragment, err := html.ParseFragment(strings.NewReader(markup), node)
	if err != nil {
		return fmt.Errorf("failed to parse inner markup: %w", err)
	}
	for c := node.FirstChild; c != nil; {
		next := c.NextSibling
		node.RemoveChild(c)
		d.forget(c)
		c = next
	}
	for _, n := range fragment {
		node.AppendChild(n)
	}
	return nil
}

// forget drops listeners registered on a detached subtree.
func (d *Document) forget(node *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		delete(d.listeners, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
}

// Contains reports whether node is still attached under the document root.
func (d *Document) Contains(node *html.Node) bool {
	for n := node; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

// HTML renders the whole document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return buf.String(), nil
}

// OuterHTML renders a single node.
func OuterHTML(node *html.Node) string {
	return htmlquery.OutputHTML(node, true)
}
