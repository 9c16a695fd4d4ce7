package jsontree

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lowercase name of the kind, as used in diff output.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a closed tagged union over JSON-like data: null, bool, number,
// string, array and string-keyed object. Numbers keep their original JSON
// text so that comparison and re-serialization never lose precision.
type Value struct {
	kind Kind
	b    bool
	num  string
	str  string
	arr  []Value
	obj  map[string]Value
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool constructs a boolean value.
func Bool(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// Number constructs a number value from its JSON text.
func Number(text string) Value {
	return Value{kind: KindNumber, num: text}
}

// Int constructs a number value from an integer.
func Int(v int64) Value {
	return Value{kind: KindNumber, num: strconv.FormatInt(v, 10)}
}

// String constructs a string value.
func String(v string) Value {
	return Value{kind: KindString, str: v}
}

// Array constructs an array value from its elements.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// Object constructs an object value from a key/value map.
func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, obj: fields}
}

// Kind reports which variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// BoolValue returns the boolean payload. Only meaningful for KindBool.
func (v Value) BoolValue() bool { return v.b }

// NumberText returns the number's original JSON text. Only meaningful for KindNumber.
func (v Value) NumberText() string { return v.num }

// StringValue returns the string payload. Only meaningful for KindString.
func (v Value) StringValue() string { return v.str }

// Elements returns the array elements. Only meaningful for KindArray.
func (v Value) Elements() []Value { return v.arr }

// Field looks up a key on an object value.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.obj[key]
	return f, ok
}

// Keys returns the object's keys in sorted order. Sorted iteration keeps
// every traversal of the same structure deterministic regardless of the
// source document's key order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the element count for arrays and the key count for objects.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	}
	return 0
}

// Equal reports deep equality between two values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, f := range v.obj {
			of, ok := other.obj[k]
			if !ok || !f.Equal(of) {
				return false
			}
		}
		return true
	}
	return false
}

// Canonical renders the value as sorted-key, whitespace-free JSON. Two
// structurally equal values always canonicalize to the same bytes, which
// makes the text usable as a hashing key.
func (v Value) Canonical() string {
	var sb strings.Builder
	v.writeCanonical(&sb)
	return sb.String()
}

func (v Value) writeCanonical(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(v.num)
	case KindString:
		encoded, _ := json.Marshal(v.str)
		sb.Write(encoded)
	case KindArray:
		sb.WriteByte('[')
		for i, el := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			el.writeCanonical(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			encoded, _ := json.Marshal(k)
			sb.Write(encoded)
			sb.WriteByte(':')
			v.obj[k].writeCanonical(sb)
		}
		sb.WriteByte('}')
	}
}

// Digest returns the first 8 hex characters of the SHA-256 of the canonical
// serialization. Used as an element fingerprint in keyed array comparison.
func (v Value) Digest() string {
	sum := sha256.Sum256([]byte(v.Canonical()))
	return hex.EncodeToString(sum[:])[:8]
}

// ScalarText renders a scalar value as plain display text: strings are
// unquoted, numbers and booleans use their JSON text. Composite values fall
// back to the canonical encoding.
func (v Value) ScalarText() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNull, KindBool, KindNumber, KindArray, KindObject:
		return v.Canonical()
	}
	return v.Canonical()
}

// Decode parses raw JSON bytes into a Value. The input must hold exactly one
// JSON value; trailing content is a decode error.
func Decode(raw []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return Value{}, err
	}
	if err := dec.Decode(new(interface{})); err != io.EOF {
		return Value{}, errors.New("trailing data after JSON value")
	}
	return fromInterface(data), nil
}

func fromInterface(data interface{}) Value {
	switch t := data.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case json.Number:
		return Number(t.String())
	case string:
		return String(t)
	case []interface{}:
		elems := make([]Value, len(t))
		for i, el := range t {
			elems[i] = fromInterface(el)
		}
		return Value{kind: KindArray, arr: elems}
	case map[string]interface{}:
		fields := make(map[string]Value, len(t))
		for k, f := range t {
			fields[k] = fromInterface(f)
		}
		return Value{kind: KindObject, obj: fields}
	}
	return Null()
}
