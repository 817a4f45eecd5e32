package genui

import (
	"strings"

	"github.com/digilab/a2ui/pkg/blocks"
)

// Extension field ids carry the "ext:" prefix so pruning can tell them apart
// from the fields the form started with.
const extPrefix = "ext:"

// IsExtension reports whether a field was added by ExtensionFields.
func IsExtension(f blocks.Field) bool {
	return strings.HasPrefix(f.ID, extPrefix)
}

// ExtensionFields derives extra form fields from the values entered so far:
// a partner brings a partner income field, children bring an ages field.
func ExtensionFields(values map[string]any) []blocks.Field {
	var fields []blocks.Field
	if truthy(values["heeft_partner"]) {
		fields = append(fields, blocks.Field{
			ID:       extPrefix + "partner_inkomen",
			Label:    "Inkomen van uw partner (per jaar)",
			Type:     blocks.FieldNumber,
			Required: true,
		})
	}
	if asInt(values["aantal_kinderen"]) > 0 {
		fields = append(fields, blocks.Field{
			ID:          extPrefix + "kinderen_leeftijden",
			Label:       "Leeftijden van uw kinderen",
			Type:        blocks.FieldText,
			Placeholder: "Bijv. 4, 7",
		})
	}
	return fields
}

// ExtendForm reconciles a form against the current values: extension fields
// whose trigger holds are present exactly once, and extension fields whose
// trigger was retracted are pruned.
func ExtendForm(form blocks.Form, values map[string]any) blocks.Form {
	wanted := ExtensionFields(values)

	kept := make([]blocks.Field, 0, len(form.Fields)+len(wanted))
	for _, f := range form.Fields {
		if !IsExtension(f) {
			kept = append(kept, f)
		}
	}
	kept = append(kept, wanted...)

	form.Fields = kept
	return form
}
