// File: internal/dom/form.go
package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FormEntry is a single name/value pair of a form's data set.
type FormEntry struct {
	Name  string
	Value string
}

// FormData is the ordered data set a browser would build for a form.
type FormData struct {
	entries []FormEntry
}

// Get returns the first value recorded for name, or "" when there is none.
func (f *FormData) Get(name string) string {
	for _, e := range f.entries {
		if e.Name == name {
			return e.Value
		}
	}
	return ""
}

// Has reports whether any entry exists for name.
func (f *FormData) Has(name string) bool {
	for _, e := range f.entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Entries returns a copy of the entries in document order.
func (f *FormData) Entries() []FormEntry {
	return append([]FormEntry(nil), f.entries...)
}

// Len is the number of entries.
func (f *FormData) Len() int { return len(f.entries) }

// skippedInputTypes never contribute to the data set.
var skippedInputTypes = map[string]bool{
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
	"file":   true,
}

// CollectForm walks the form's descendants and builds its data set:
// named, enabled controls; checkboxes and radios only when checked;
// selects contribute their selected option.
func CollectForm(form *html.Node) *FormData {
	data := &FormData{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			collectControl(n, data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := form.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return data
}

func collectControl(n *html.Node, data *FormData) {
	switch n.DataAtom {
	case atom.Input, atom.Select, atom.Textarea:
	default:
		return
	}
	name, ok := Attr(n, "name")
	if !ok || name == "" {
		return
	}
	if _, disabled := Attr(n, "disabled"); disabled {
		return
	}

	switch n.DataAtom {
	case atom.Input:
		t := inputType(n)
		if skippedInputTypes[t] {
			return
		}
		if (t == "checkbox" || t == "radio") && !Checked(n) {
			return
		}
		data.entries = append(data.entries, FormEntry{Name: name, Value: Value(n)})
	case atom.Select:
		if _, multiple := Attr(n, "multiple"); multiple {
			for _, opt := range Options(n) {
				if _, selected := Attr(opt, "selected"); selected {
					data.entries = append(data.entries, FormEntry{Name: name, Value: optionValue(opt)})
				}
			}
			return
		}
		if opt := selectedOption(n); opt != nil {
			data.entries = append(data.entries, FormEntry{Name: name, Value: optionValue(opt)})
		}
	case atom.Textarea:
		data.entries = append(data.entries, FormEntry{Name: name, Value: Value(n)})
	}
}
