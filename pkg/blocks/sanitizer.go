package blocks

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Sanitize validates a raw block sequence (as decoded from agent JSON)
// against the allow-list and returns only renderable blocks. Blocks with an
// unknown kind become Unrecognized placeholders; entries that are not objects
// at all are dropped. Sanitize never fails on malformed input.
func Sanitize(raw []any) []Block {
	out := make([]Block, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, sanitizeOne(m))
	}
	return out
}

func sanitizeOne(m map[string]any) Block {
	kind, _ := m["kind"].(string)
	if !AllowedKinds[kind] {
		return Unrecognized{
			Kind:    KindUnrecognized,
			Title:   "Onbekend blok",
			RawKind: kind,
			Raw:     m,
		}
	}

	switch kind {
	case KindCallout:
		var b Callout
		decode(m, &b)
		b.Kind = kind
		if b.Body == "" {
			// Some generators emit "text" instead of "body".
			b.Body, _ = m["text"].(string)
		}
		return b
	case KindCitations:
		var b Citations
		decode(m, &b)
		b.Kind = kind
		return b
	case KindAccordion:
		var b Accordion
		decode(m, &b)
		b.Kind = kind
		b.Items = healQA(m, b.Items)
		return b
	case KindNextQuestions:
		var b NextQuestions
		decode(m, &b)
		b.Kind = kind
		return b
	case KindNotice:
		var b Notice
		decode(m, &b)
		b.Kind = kind
		if b.Body == "" {
			b.Body, _ = m["text"].(string)
		}
		return b
	case KindDecision:
		return sanitizeDecision(m)
	case KindForm:
		return sanitizeForm(m)
	}

	// Unreachable while the switch covers AllowedKinds.
	return Unrecognized{Kind: KindUnrecognized, Title: "Onbekend blok", RawKind: kind, Raw: m}
}

// sanitizeDecision accepts both question/title and value/id spellings.
func sanitizeDecision(m map[string]any) Decision {
	b := Decision{Kind: KindDecision}
	b.ID, _ = m["id"].(string)
	if b.ID == "" {
		b.ID, _ = m["name"].(string)
	}
	b.Question, _ = m["question"].(string)
	if b.Question == "" {
		b.Question, _ = m["title"].(string)
	}
	rawOpts, _ := m["options"].([]any)
	for _, ro := range rawOpts {
		om, ok := ro.(map[string]any)
		if !ok {
			continue
		}
		opt := Option{}
		opt.Label, _ = om["label"].(string)
		opt.Value, _ = om["value"].(string)
		if opt.Value == "" {
			opt.Value, _ = om["id"].(string)
		}
		if opt.Label == "" {
			opt.Label = opt.Value
		}
		if opt.Value == "" && opt.Label == "" {
			continue
		}
		if opt.Value == "" {
			opt.Value = opt.Label
		}
		b.Options = append(b.Options, opt)
	}
	return b
}

func sanitizeForm(m map[string]any) Form {
	var b Form
	decode(m, &b)
	b.Kind = KindForm
	if b.FormID == "" {
		b.FormID = "form"
	}
	if b.SubmitLabel == "" {
		b.SubmitLabel = "Versturen"
	}
	for i := range b.Fields {
		b.Fields[i] = SanitizeField(b.Fields[i])
	}
	return b
}

// SanitizeField normalizes a single form field: unrecognized types degrade to
// text, and a field without an id derives one from its label.
func SanitizeField(f Field) Field {
	if !allowedFieldTypes[f.Type] {
		f.Type = FieldText
	}
	if f.ID == "" {
		f.ID = slug(f.Label)
	}
	if f.Label == "" {
		f.Label = f.ID
	}
	return f
}

// MinimalForm synthesizes the fail-safe form used when a generator returns no
// usable form block: always one submittable required field, derived from the
// user's free-text query.
func MinimalForm(query string) Form {
	label := "Uw vraag"
	placeholder := "Beschrijf uw situatie"
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "huur"):
		label = "Uw huursituatie"
		placeholder = "Bijv. kale huur en servicekosten per maand"
	case strings.Contains(q, "zorg"):
		label = "Uw zorgverzekering"
		placeholder = "Bijv. naam verzekeraar en soort polis"
	case strings.Contains(q, "bezwaar"):
		label = "Uw bezwaar"
		placeholder = "Bijv. kenmerk en reden van het bezwaar"
	}
	return Form{
		Kind:   KindForm,
		FormID: "form_minimal",
		Title:  "Aanvraag (basis)",
		Fields: []Field{{
			ID:          "toelichting",
			Label:       label,
			Type:        FieldText,
			Required:    true,
			Placeholder: placeholder,
		}},
		SubmitLabel: "Versturen",
	}
}

// decode maps a raw JSON object onto a typed block. Decode errors are
// deliberately swallowed: a partially filled block is still renderable, and
// the sanitizer must never raise.
func decode(m map[string]any, out any) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return
	}
	_ = dec.Decode(m)
}

// healQA re-reads accordion items accepting question/answer as alternate keys.
func healQA(m map[string]any, decoded []QA) []QA {
	rawItems, _ := m["items"].([]any)
	if len(rawItems) == 0 {
		return decoded
	}
	out := make([]QA, 0, len(rawItems))
	for i, ri := range rawItems {
		im, ok := ri.(map[string]any)
		if !ok {
			continue
		}
		qa := QA{}
		if i < len(decoded) {
			qa = decoded[i]
		}
		if qa.Q == "" {
			qa.Q, _ = im["question"].(string)
		}
		if qa.A == "" {
			qa.A, _ = im["answer"].(string)
		}
		if qa.Q == "" && qa.A == "" {
			continue
		}
		out = append(out, qa)
	}
	return out
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("field_%d", len(s))
	}
	return b.String()
}
