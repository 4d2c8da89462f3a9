// File: internal/hoststate/state.go
package hoststate

import (
	jsoniter "github.com/json-iterator/go"
)

// Variant identifies which generation of the host front end produced the page.
type Variant int

const (
	// VariantNone is the zero value; a located State never carries it.
	VariantNone Variant = iota
	// VariantClient is the older "clientData" blob.
	VariantClient
	// VariantApp is the newer Apollo based "app-data" blob.
	VariantApp
)

func (v Variant) String() string {
	switch v {
	case VariantClient:
		return "ClientState"
	case VariantApp:
		return "AppState"
	default:
		return "None"
	}
}

// State is the parsed host state of one page. It is immutable after Locate returns.
type State struct {
	variant Variant
	source  string
	tree    map[string]any
	raw     []byte
}

// Variant returns the discriminant fixed at construction.
func (s *State) Variant() Variant { return s.variant }

// Source returns the id of the script element the state was read from.
func (s *State) Source() string { return s.source }

// Lookup descends through nested objects by key. Any missing hop, or a hop
// through a non-object, yields ok == false.
func (s *State) Lookup(path ...string) (any, bool) {
	var cur any = s.tree
	for _, key := range path {
		obj, isObj := cur.(map[string]any)
		if !isObj {
			return nil, false
		}
		next, present := obj[key]
		if !present {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Keys returns the keys of the object at path in document order.
// Decoded Go maps lose ordering, so this re-reads the raw JSON.
func (s *State) Keys(path ...string) []string {
	iter := jsonAPI.BorrowIterator(s.raw)
	defer jsonAPI.ReturnIterator(iter)
	keys, _ := keysAt(iter, path)
	return keys
}

func keysAt(iter *jsoniter.Iterator, path []string) ([]string, bool) {
	if iter.WhatIsNext() != jsoniter.ObjectValue {
		iter.Skip()
		return nil, false
	}
	var (
		keys  []string
		found bool
	)
	iter.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
		if len(path) == 0 {
			keys = append(keys, key)
			it.Skip()
			return true
		}
		if key == path[0] {
			// Duplicate keys resolve to the last occurrence, as in a decoded map.
			keys, found = keysAt(it, path[1:])
			return true
		}
		it.Skip()
		return true
	})
	if len(path) == 0 {
		return keys, true
	}
	return keys, found
}
