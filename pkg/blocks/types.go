// Package blocks defines the closed set of renderable UI blocks produced by
// generative flows, and the sanitizer that is the trust boundary between
// agent output and the client.
package blocks

// Block kinds accepted by the renderer. Anything else is replaced by an
// Unrecognized placeholder, never passed through raw.
const (
	KindCallout       = "callout"
	KindCitations     = "citations"
	KindAccordion     = "accordion"
	KindNextQuestions = "next_questions"
	KindNotice        = "notice"
	KindDecision      = "decision"
	KindForm          = "form"
	KindUnrecognized  = "unrecognized"
)

// AllowedKinds is the renderable block allow-list.
var AllowedKinds = map[string]bool{
	KindCallout:       true,
	KindCitations:     true,
	KindAccordion:     true,
	KindNextQuestions: true,
	KindNotice:        true,
	KindDecision:      true,
	KindForm:          true,
}

// Field types accepted inside form blocks. Unrecognized types degrade to
// FieldText.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldEmail    = "email"
	FieldNumber   = "number"
	FieldDate     = "date"
)

var allowedFieldTypes = map[string]bool{
	FieldText:     true,
	FieldTextarea: true,
	FieldSelect:   true,
	FieldEmail:    true,
	FieldNumber:   true,
	FieldDate:     true,
}

// Block is implemented by every renderable block variant.
type Block interface {
	BlockKind() string
}

// Callout is a highlighted summary block.
type Callout struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (Callout) BlockKind() string { return KindCallout }

// Citation is a single source reference.
type Citation struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Citations lists source references.
type Citations struct {
	Kind  string     `json:"kind"`
	Title string     `json:"title"`
	Items []Citation `json:"items"`
}

func (Citations) BlockKind() string { return KindCitations }

// QA is one accordion entry.
type QA struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Accordion is a collapsible question/answer list.
type Accordion struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Items []QA   `json:"items"`
}

func (Accordion) BlockKind() string { return KindAccordion }

// NextQuestions suggests follow-up questions.
type NextQuestions struct {
	Kind  string   `json:"kind"`
	Title string   `json:"title"`
	Items []string `json:"items"`
}

func (NextQuestions) BlockKind() string { return KindNextQuestions }

// Notice is a cautionary footer block.
type Notice struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (Notice) BlockKind() string { return KindNotice }

// Option is one selectable answer of a decision block.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Decision asks the user to pick one option (wizard step). The ID is echoed
// back by the client as the nodeId of the choice event.
type Decision struct {
	Kind     string   `json:"kind"`
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

func (Decision) BlockKind() string { return KindDecision }

// Field describes one input of a form block.
type Field struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// Form is a submittable input block.
type Form struct {
	Kind        string  `json:"kind"`
	FormID      string  `json:"formId"`
	Title       string  `json:"title"`
	Fields      []Field `json:"fields"`
	SubmitLabel string  `json:"submitLabel"`
}

func (Form) BlockKind() string { return KindForm }

// Unrecognized replaces a block whose kind is not on the allow-list. The raw
// payload is kept for debugging but is never rendered as trusted content.
type Unrecognized struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	RawKind string `json:"rawKind"`
	Raw     any    `json:"raw,omitempty"`
}

func (Unrecognized) BlockKind() string { return KindUnrecognized }
