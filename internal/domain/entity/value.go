package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ValueKind discriminates the JSON shapes a Value can hold
type ValueKind int

// Value kinds
const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueObject
	ValueArray
)

// Value is a closed, tagged representation of a JSON document. Audit log
// diffs are schema-flexible across entity types, so old/new snapshots are
// carried as Values instead of per-entity structs. Numbers are kept as
// json.Number to survive round trips without losing precision.
type Value struct {
	kind    ValueKind
	str     string
	num     json.Number
	boolean bool
	object  map[string]Value
	array   []Value
}

// NullValue returns the JSON null value
func NullValue() Value {
	return Value{kind: ValueNull}
}

// StringValue wraps a string
func StringValue(s string) Value {
	return Value{kind: ValueString, str: s}
}

// NumberValue wraps a raw JSON number
func NumberValue(n json.Number) Value {
	return Value{kind: ValueNumber, num: n}
}

// IntValue wraps an integer
func IntValue(i int64) Value {
	return Value{kind: ValueNumber, num: json.Number(fmt.Sprintf("%d", i))}
}

// BoolValue wraps a boolean
func BoolValue(b bool) Value {
	return Value{kind: ValueBool, boolean: b}
}

// ObjectValue wraps a JSON object
func ObjectValue(fields map[string]Value) Value {
	return Value{kind: ValueObject, object: fields}
}

// ArrayValue wraps a JSON array
func ArrayValue(items []Value) Value {
	return Value{kind: ValueArray, array: items}
}

// StatusValue builds the {"status": s} object used by status-change audit entries
func StatusValue(status string) Value {
	return ObjectValue(map[string]Value{"status": StringValue(status)})
}

// FieldValue builds the {name: v} object used by field-update audit entries
func FieldValue(name string, v Value) Value {
	return ObjectValue(map[string]Value{name: v})
}

// Kind returns the value's discriminator
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is JSON null
func (v Value) IsNull() bool {
	return v.kind == ValueNull
}

// StringVal returns the string payload; ok is false for other kinds
func (v Value) StringVal() (string, bool) {
	return v.str, v.kind == ValueString
}

// NumberVal returns the number payload; ok is false for other kinds
func (v Value) NumberVal() (json.Number, bool) {
	return v.num, v.kind == ValueNumber
}

// BoolVal returns the boolean payload; ok is false for other kinds
func (v Value) BoolVal() (bool, bool) {
	return v.boolean, v.kind == ValueBool
}

// ObjectVal returns the object payload; ok is false for other kinds
func (v Value) ObjectVal() (map[string]Value, bool) {
	return v.object, v.kind == ValueObject
}

// ArrayVal returns the array payload; ok is false for other kinds
func (v Value) ArrayVal() ([]Value, bool) {
	return v.array, v.kind == ValueArray
}

// Field returns the named member of an object value
func (v Value) Field(name string) (Value, bool) {
	if v.kind != ValueObject {
		return Value{}, false
	}
	member, ok := v.object[name]
	return member, ok
}

// Equal reports deep equality between two values
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueNull:
		return true
	case ValueString:
		return v.str == other.str
	case ValueNumber:
		return v.num == other.num
	case ValueBool:
		return v.boolean == other.boolean
	case ValueObject:
		if len(v.object) != len(other.object) {
			return false
		}
		for k, member := range v.object {
			otherMember, ok := other.object[k]
			if !ok || !member.Equal(otherMember) {
				return false
			}
		}
		return true
	case ValueArray:
		if len(v.array) != len(other.array) {
			return false
		}
		for i, member := range v.array {
			if !member.Equal(other.array[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNull:
		return []byte("null"), nil
	case ValueString:
		return json.Marshal(v.str)
	case ValueNumber:
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	case ValueBool:
		return json.Marshal(v.boolean)
	case ValueObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		keys := make([]string, 0, len(v.object))
		for k := range v.object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			memberJSON, err := v.object[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(memberJSON)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case ValueArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, member := range v.array {
			if i > 0 {
				buf.WriteByte(',')
			}
			memberJSON, err := member.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(memberJSON)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	parsed, err := valueFromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseValue decodes a JSON document into a Value
func ParseValue(data []byte) (Value, error) {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return Value{}, err
	}
	return v, nil
}

func valueFromAny(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return NullValue(), nil
	case string:
		return StringValue(typed), nil
	case json.Number:
		return NumberValue(typed), nil
	case bool:
		return BoolValue(typed), nil
	case map[string]any:
		object := make(map[string]Value, len(typed))
		for k, member := range typed {
			converted, err := valueFromAny(member)
			if err != nil {
				return Value{}, err
			}
			object[k] = converted
		}
		return ObjectValue(object), nil
	case []any:
		array := make([]Value, 0, len(typed))
		for _, member := range typed {
			converted, err := valueFromAny(member)
			if err != nil {
				return Value{}, err
			}
			array = append(array, converted)
		}
		return ArrayValue(array), nil
	default:
		return Value{}, fmt.Errorf("unsupported JSON value of type %T", raw)
	}
}
