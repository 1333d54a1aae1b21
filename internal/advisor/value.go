package advisor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant of a Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a decoded JSON value. Objects keep their members in document
// order, which is the order the recommendation server emitted them in.
type Value struct {
	Kind Kind

	// Str holds the text of a string, or the literal of a number.
	Str    string
	Bool   bool
	List   []Value
	Fields []Field
}

// Field is one member of a JSON object.
type Field struct {
	Key   string
	Value Value
}

// String returns a string Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Object returns an object Value with the given members.
func Object(fields ...Field) Value { return Value{Kind: KindObject, Fields: fields} }

// List returns a list Value.
func List(items ...Value) Value { return Value{Kind: KindList, List: items} }

// ParseValue decodes a JSON document into a Value.
func ParseValue(data []byte) (Value, error) {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return Value{}, err
	}
	return v, nil
}

// Lookup returns the member named key of an object Value.
func (v Value) Lookup(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Truthy mirrors how the browser form treated optional fields: null, empty
// strings, false and zero are all "not present".
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindString:
		return v.Str != ""
	case KindNumber:
		f, err := strconv.ParseFloat(v.Str, 64)
		return err != nil || f != 0
	case KindBool:
		return v.Bool
	default:
		return true
	}
}

// Text renders the value as plain text. Lists are joined with ", " and
// objects become compact JSON.
func (v Value) Text() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindString, KindNumber:
		return v.Str
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.Text()
		}
		return strings.Join(parts, ", ")
	case KindObject:
		return v.Compact()
	default:
		return ""
	}
}

// Compact returns the value as single-line JSON.
func (v Value) Compact() string {
	var buf bytes.Buffer
	v.appendJSON(&buf)
	return buf.String()
}

// Indent returns the value as JSON indented by two spaces.
func (v Value) Indent() string {
	var compact, out bytes.Buffer
	v.appendJSON(&compact)
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return compact.String()
	}
	return out.String()
}

// MarshalJSON encodes the value preserving object member order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.appendJSON(&buf)
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes any JSON document. A repeated object key replaces
// the earlier value but keeps the earlier position.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	val, err := decodeValue(dec)
	if err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after top-level value")
	}
	*v = val
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{Kind: KindList, List: items}, nil
		case '{':
			fields := []Field{}
			index := map[string]int{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %T, not string", kt)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if i, seen := index[key]; seen {
					fields[i].Value = val
					continue
				}
				index[key] = len(fields)
				fields = append(fields, Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{Kind: KindObject, Fields: fields}, nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case json.Number:
		return Value{Kind: KindNumber, Str: t.String()}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case nil:
		return Value{Kind: KindNull}, nil
	default:
		return Value{}, fmt.Errorf("unexpected token %T", tok)
	}
}

func (v Value) appendJSON(buf *bytes.Buffer) {
	switch v.Kind {
	case KindString:
		appendString(buf, v.Str)
	case KindNumber:
		buf.WriteString(v.Str)
	case KindBool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.appendJSON(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendString(buf, f.Key)
			buf.WriteByte(':')
			f.Value.appendJSON(buf)
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
}

// appendString writes s as a JSON string without HTML escaping; templates
// escape on output.
func appendString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
}
