package advisor

import "fmt"

// Well-known top-level keys of a recommendation result.
const (
	KeyWorkpiece        = "workpiece"
	KeyOperation        = "operation"
	KeyChosenTool       = "chosen_tool"
	KeyGeneralNotes     = "general_notes"
	KeyOperationDetails = "operation_details"
	KeyRecommendations  = "recommendations"
)

// OperationUnspecified is what the server reports when no operation was
// chosen.
const OperationUnspecified = "unspecified"

// Result is the "recommendation" object of a successful response. Only the
// accessors below are interpreted; every other member is kept verbatim so it
// can be shown in the table and the raw JSON panel.
type Result struct {
	doc Value
}

// NewResult wraps an object Value.
func NewResult(v Value) (*Result, error) {
	if v.Kind != KindObject {
		return nil, fmt.Errorf("recommendation is %s, not object", v.Kind)
	}
	return &Result{doc: v}, nil
}

// ParseResult decodes a JSON object into a Result.
func ParseResult(data []byte) (*Result, error) {
	v, err := ParseValue(data)
	if err != nil {
		return nil, err
	}
	return NewResult(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Result) UnmarshalJSON(data []byte) error {
	res, err := ParseResult(data)
	if err != nil {
		return err
	}
	*r = *res
	return nil
}

// MarshalJSON implements json.Marshaler, keeping member order.
func (r *Result) MarshalJSON() ([]byte, error) {
	return r.doc.MarshalJSON()
}

// Value returns the underlying document.
func (r *Result) Value() Value { return r.doc }

// Fields returns every top-level member in document order.
func (r *Result) Fields() []Field { return r.doc.Fields }

// Lookup returns the member named key.
func (r *Result) Lookup(key string) (Value, bool) { return r.doc.Lookup(key) }

// Workpiece returns the workpiece material, or "" when absent.
func (r *Result) Workpiece() string {
	v, _ := r.doc.Lookup(KeyWorkpiece)
	return v.Text()
}

// Operation returns the operation as reported, or "" when absent.
func (r *Result) Operation() string {
	v, _ := r.doc.Lookup(KeyOperation)
	return v.Text()
}

// HasOperation reports whether a concrete operation was chosen.
func (r *Result) HasOperation() bool {
	op := r.Operation()
	return op != "" && op != OperationUnspecified
}

// ChosenTool returns the primary tool recommendation, if any.
func (r *Result) ChosenTool() Optional[string] {
	return r.optionalText(KeyChosenTool)
}

// GeneralNotes returns the workpiece notes, if any.
func (r *Result) GeneralNotes() Optional[string] {
	return r.optionalText(KeyGeneralNotes)
}

// OperationDetails returns the members of operation_details, or None when
// the member is absent or not an object.
func (r *Result) OperationDetails() Optional[[]Field] {
	v, ok := r.doc.Lookup(KeyOperationDetails)
	if !ok || v.Kind != KindObject {
		return None[[]Field]()
	}
	return Some(v.Fields)
}

// ToolRecommendation is the geometry advice for one tool material.
type ToolRecommendation struct {
	Tool   string
	Fields []Field
}

// Recommendations returns one entry per tool in document order. Tools whose
// advice is not an object are kept with no fields.
func (r *Result) Recommendations() []ToolRecommendation {
	v, ok := r.doc.Lookup(KeyRecommendations)
	if !ok || v.Kind != KindObject {
		return nil
	}
	recs := make([]ToolRecommendation, 0, len(v.Fields))
	for _, f := range v.Fields {
		rec := ToolRecommendation{Tool: f.Key}
		if f.Value.Kind == KindObject {
			rec.Fields = f.Value.Fields
		}
		recs = append(recs, rec)
	}
	return recs
}

func (r *Result) optionalText(key string) Optional[string] {
	v, ok := r.doc.Lookup(key)
	if !ok || !v.Truthy() {
		return None[string]()
	}
	return Some(v.Text())
}
