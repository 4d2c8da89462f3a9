// File: internal/dom/element.go
package dom

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr returns the value of an attribute and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or adds an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

// TextContent returns the concatenated text of a node.
func TextContent(n *html.Node) string {
	return htmlquery.InnerText(n)
}

func inputType(n *html.Node) string {
	t, _ := Attr(n, "type")
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return "text"
	}
	return t
}

// Value returns the live value of a form control.
//   - input: its value attribute ("on" for value-less checkboxes and radios)
//   - select: the value of the selected option, or the first option when none is selected
//   - textarea: its text
func Value(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	switch n.DataAtom {
	case atom.Input:
		v, ok := Attr(n, "value")
		if !ok {
			if t := inputType(n); t == "checkbox" || t == "radio" {
				return "on"
			}
		}
		return v
	case atom.Select:
		if opt := selectedOption(n); opt != nil {
			return optionValue(opt)
		}
		return ""
	case atom.Textarea:
		return TextContent(n)
	}
	return ""
}

// SetValue updates a form control's value. For a select, the option whose
// value matches becomes the only selected option.
func SetValue(n *html.Node, v string) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	switch n.DataAtom {
	case atom.Input:
		SetAttr(n, "value", v)
	case atom.Select:
		for _, opt := range Options(n) {
			if optionValue(opt) == v {
				SetAttr(opt, "selected", "selected")
			} else {
				RemoveAttr(opt, "selected")
			}
		}
	case atom.Textarea:
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: v})
	}
}

// Checked reports the checked state of a checkbox or radio input.
func Checked(n *html.Node) bool {
	_, ok := Attr(n, "checked")
	return ok
}

// SetChecked toggles a checkbox or radio. Checking a radio unchecks the other
// radios of the same name inside the same form.
func SetChecked(n *html.Node, checked bool) {
	if !checked {
		RemoveAttr(n, "checked")
		return
	}
	if inputType(n) == "radio" {
		name, _ := Attr(n, "name")
		scope := owningForm(n)
		if scope == nil {
			scope = topmost(n)
		}
		for _, other := range htmlquery.Find(scope, ".//input[@type='radio']") {
			if otherName, _ := Attr(other, "name"); otherName == name {
				RemoveAttr(other, "checked")
			}
		}
	}
	SetAttr(n, "checked", "checked")
}

// Options returns the option elements of a select, including those inside optgroups.
func Options(sel *html.Node) []*html.Node {
	return htmlquery.Find(sel, ".//option")
}

func optionValue(opt *html.Node) string {
	if v, ok := Attr(opt, "value"); ok {
		return v
	}
	return strings.Join(strings.Fields(TextContent(opt)), " ")
}

// OptionValues returns the values of a select's options in order.
func OptionValues(sel *html.Node) []string {
	opts := Options(sel)
	values := make([]string, 0, len(opts))
	for _, opt := range opts {
		values = append(values, optionValue(opt))
	}
	return values
}

func selectedOption(sel *html.Node) *html.Node {
	opts := Options(sel)
	for _, opt := range opts {
		if _, ok := Attr(opt, "selected"); ok {
			return opt
		}
	}
	if len(opts) > 0 {
		if _, multiple := Attr(sel, "multiple"); !multiple {
			return opts[0]
		}
	}
	return nil
}

// -- Visibility --

// Show sets display:block on the element's inline style.
func Show(n *html.Node) { setStyleProperty(n, "display", "block") }

// Hide sets display:none on the element's inline style.
func Hide(n *html.Node) { setStyleProperty(n, "display", "none") }

// Hidden reports whether the element's inline style hides it.
func Hidden(n *html.Node) bool {
	return styleProperty(n, "display") == "none"
}

func parseStyle(n *html.Node) ([]string, map[string]string) {
	raw, _ := Attr(n, "style")
	var order []string
	props := make(map[string]string)
	for _, decl := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, seen := props[name]; !seen {
			order = append(order, name)
		}
		props[name] = strings.TrimSpace(value)
	}
	return order, props
}

func styleProperty(n *html.Node, name string) string {
	_, props := parseStyle(n)
	return props[name]
}

func setStyleProperty(n *html.Node, name, value string) {
	order, props := parseStyle(n)
	if _, seen := props[name]; !seen {
		order = append(order, name)
	}
	props[name] = value

	decls := make([]string, 0, len(order))
	for _, k := range order {
		decls = append(decls, k+": "+props[k]+";")
	}
	SetAttr(n, "style", strings.Join(decls, " "))
}

// -- Tree helpers --

func owningForm(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Form {
			return p
		}
	}
	return nil
}

func topmost(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}
