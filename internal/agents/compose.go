package agents

import (
	"encoding/json"
	"regexp"
	"strings"
)

// composeKinds is the block set the compose_ui prompt allows. Form and
// decision blocks come from the dedicated capabilities, not free composition.
var composeKinds = map[string]bool{
	"callout":        true,
	"citations":      true,
	"accordion":      true,
	"next_questions": true,
	"notice":         true,
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	fenceOpenRe     = regexp.MustCompile("^```(?:json)?\\s*")
	fenceCloseRe    = regexp.MustCompile("\\s*```$")
)

// cleanupJSONLike repairs the common model output defects: smart quotes,
// trailing commas and code fences.
func cleanupJSONLike(s string) string {
	r := strings.NewReplacer("“", `"`, "”", `"`, "’", "'", "‘", "'")
	s = r.Replace(s)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = fenceOpenRe.ReplaceAllString(strings.TrimSpace(s), "")
	s = fenceCloseRe.ReplaceAllString(s, "")
	return s
}

// extractJSON pulls one JSON object out of model output: the whole string
// first, then the substring between the first { and the last }.
func extractJSON(text string) map[string]any {
	if text == "" {
		return nil
	}
	s := cleanupJSONLike(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return obj
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return nil
	}
	candidate := cleanupJSONLike(s[start : end+1])
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil
	}
	return obj
}

var defaultTitles = map[string]string{
	"callout":        "Kern",
	"citations":      "Bronnen",
	"accordion":      "Veelgestelde vragen",
	"next_questions": "Vervolgvraag",
	"notice":         "Let op",
}

// shapeBlocks validates a composed object: allowed kinds only, healed titles
// and alternate keys, citations replaced by the authoritative set, at least 4
// and at most 6 blocks. Returns nil when the result is unusable.
func shapeBlocks(obj map[string]any, citations []any) []map[string]any {
	rawBlocks, _ := obj["blocks"].([]any)
	if len(rawBlocks) == 0 {
		return nil
	}

	var out []map[string]any
	for _, rb := range rawBlocks {
		b, ok := rb.(map[string]any)
		if !ok {
			continue
		}
		kind, _ := b["kind"].(string)
		if !composeKinds[kind] {
			continue
		}

		title := strings.TrimSpace(asString(b["title"]))
		if title == "" {
			title = defaultTitles[kind]
		}

		switch kind {
		case "citations":
			out = append(out, map[string]any{"kind": kind, "title": title, "items": citations})
		case "callout", "notice":
			body := strings.TrimSpace(asString(b["body"]))
			if body == "" {
				body = strings.TrimSpace(asString(b["text"]))
			}
			out = append(out, map[string]any{"kind": kind, "title": title, "body": body})
		case "accordion":
			items, _ := b["items"].([]any)
			var shaped []any
			for _, it := range items {
				if len(shaped) == 4 {
					break
				}
				im, ok := it.(map[string]any)
				if !ok {
					continue
				}
				q := strings.TrimSpace(asString(firstOf(im, "q", "question")))
				a := strings.TrimSpace(asString(firstOf(im, "a", "answer")))
				if q != "" && a != "" {
					shaped = append(shaped, map[string]any{"q": q, "a": a})
				}
			}
			if len(shaped) >= 2 {
				out = append(out, map[string]any{"kind": kind, "title": title, "items": shaped})
			}
		case "next_questions":
			items, _ := b["items"].([]any)
			var shaped []any
			for _, it := range items {
				if len(shaped) == 5 {
					break
				}
				if s := strings.TrimSpace(asString(it)); s != "" {
					shaped = append(shaped, s)
				}
			}
			if len(shaped) >= 3 {
				out = append(out, map[string]any{"kind": kind, "title": title, "items": shaped})
			}
		}
	}

	hasCitations := false
	for _, b := range out {
		if b["kind"] == "citations" {
			hasCitations = true
			break
		}
	}
	if !hasCitations {
		out = append([]map[string]any{{"kind": "citations", "title": "Bronnen", "items": citations}}, out...)
	}

	if len(out) < 4 {
		return nil
	}
	if len(out) > 6 {
		out = out[:6]
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); !ok || s != "" {
				return v
			}
		}
	}
	return nil
}
