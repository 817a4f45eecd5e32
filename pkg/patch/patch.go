// Package patch implements the minimal JSON Patch subset used by the A2UI
// protocol: add/replace operations targeting JSON-pointer paths, applied with
// a heal-forward policy so neither side has to special-case missing
// intermediate structure.
package patch

import "strings"

// Patch is a single mutation of a data model.
// Ops other than "add" and "replace" are ignored by Apply.
type Patch struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Add builds an add patch.
func Add(path string, value any) Patch {
	return Patch{Op: "add", Path: path, Value: value}
}

// Replace builds a replace patch.
func Replace(path string, value any) Patch {
	return Patch{Op: "replace", Path: path, Value: value}
}

// Apply applies patches to doc in input order and returns the document.
// It never fails: unknown ops and malformed paths are skipped, and any
// non-object value found along a path is overwritten with a fresh object so
// the final segment can always be set. A patch whose path resolves to zero
// segments replaces the whole document when its value is an object.
func Apply(doc map[string]any, patches []Patch) map[string]any {
	if doc == nil {
		doc = make(map[string]any)
	}
	for _, p := range patches {
		if p.Op != "add" && p.Op != "replace" {
			continue
		}
		if !strings.HasPrefix(p.Path, "/") {
			continue
		}
		segs := split(p.Path)
		if len(segs) == 0 {
			if m, ok := p.Value.(map[string]any); ok {
				for k := range doc {
					delete(doc, k)
				}
				for k, v := range m {
					doc[k] = v
				}
			}
			continue
		}
		cur := doc
		for _, seg := range segs[:len(segs)-1] {
			child, ok := cur[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				cur[seg] = child
			}
			cur = child
		}
		cur[segs[len(segs)-1]] = p.Value
	}
	return doc
}

// Get walks doc along path and returns the value at the final segment.
// The second return is false when path is malformed or any segment is absent.
func Get(doc map[string]any, path string) (any, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	segs := split(path)
	var cur any = doc
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func split(path string) []string {
	parts := strings.Split(path, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}
