// Package ordjson is an order-preserving JSON document model.
//
// Objects keep their keys in document order, duplicates included, and
// numbers and strings keep their original literal, so a parse-edit-write
// cycle leaves every untouched key and value exactly as it was (modulo
// whitespace).
package ordjson

import "encoding/json"

// Kind is the JSON type of a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Value is a tagged union over the JSON types.
type Value struct {
	kind  Kind
	b     bool
	s     string // string contents or number literal
	raw   string // source literal of a parsed string, quotes included
	items []*Value
	obj   *Map
}

// Map is an object with ordered keys.
type Map struct {
	members []member
}

type member struct {
	key string
	raw string
	val *Value
}

func NewNull() *Value           { return &Value{kind: Null} }
func NewBool(b bool) *Value     { return &Value{kind: Bool, b: b} }
func NewString(s string) *Value { return &Value{kind: String, s: s} }
func NewArray(items ...*Value) *Value {
	return &Value{kind: Array, items: items}
}

// NewNumber wraps a number literal as-is.
func NewNumber(n json.Number) *Value { return &Value{kind: Number, s: string(n)} }

// NewObject wraps m; a nil m becomes an empty object.
func NewObject(m *Map) *Value {
	if m == nil {
		m = &Map{}
	}
	return &Value{kind: Object, obj: m}
}

// NewStrings builds an array of string values.
func NewStrings(ss ...string) *Value {
	items := make([]*Value, len(ss))
	for i, s := range ss {
		items[i] = NewString(s)
	}
	return NewArray(items...)
}

func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// AsString returns the string contents if v is a string.
func (v *Value) AsString() (string, bool) {
	if v.Kind() != String {
		return "", false
	}
	return v.s, true
}

// AsBool returns the boolean if v is a bool.
func (v *Value) AsBool() (bool, bool) {
	if v.Kind() != Bool {
		return false, false
	}
	return v.b, true
}

// AsNumber returns the original literal if v is a number.
func (v *Value) AsNumber() (json.Number, bool) {
	if v.Kind() != Number {
		return "", false
	}
	return json.Number(v.s), true
}

// AsMap returns the object if v is one, else nil.
func (v *Value) AsMap() *Map {
	if v.Kind() != Object {
		return nil
	}
	return v.obj
}

// Items returns the elements if v is an array, else nil.
func (v *Value) Items() []*Value {
	if v.Kind() != Array {
		return nil
	}
	return v.items
}

// SetItems replaces the elements of an array value. It is a no-op for other
// kinds.
func (v *Value) SetItems(items []*Value) {
	if v.Kind() != Array {
		return
	}
	v.items = items
}

// Get returns the value under key, or nil. With duplicate keys the last
// one wins, as with encoding/json.
func (m *Map) Get(key string) *Value {
	if i := m.last(key); i >= 0 {
		return m.members[i].val
	}
	return nil
}

func (m *Map) last(key string) int {
	if m == nil {
		return -1
	}
	for i := len(m.members) - 1; i >= 0; i-- {
		if m.members[i].key == key {
			return i
		}
	}
	return -1
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	return m.Get(key) != nil
}

// Set replaces the value under key in place, or appends key at the end.
func (m *Map) Set(key string, v *Value) {
	if v == nil {
		v = NewNull()
	}
	if i := m.last(key); i >= 0 {
		m.members[i].val = v
		return
	}
	m.members = append(m.members, member{key: key, val: v})
}

// Delete removes every occurrence of key, reporting whether it was present.
func (m *Map) Delete(key string) bool {
	kept := m.members[:0]
	for _, mem := range m.members {
		if mem.key != key {
			kept = append(kept, mem)
		}
	}
	found := len(kept) != len(m.members)
	m.members = kept
	return found
}

// Keys returns the keys in document order, duplicates included.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.members))
	for i, mem := range m.members {
		keys[i] = mem.key
	}
	return keys
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.members)
}

// String returns the string under key if present and a string.
func (m *Map) String(key string) (string, bool) {
	return m.Get(key).AsString()
}

// Map returns the object under key, or nil.
func (m *Map) Map(key string) *Map {
	return m.Get(key).AsMap()
}

// Array returns the array value under key, or nil if absent or not an array.
func (m *Map) Array(key string) *Value {
	v := m.Get(key)
	if v.Kind() != Array {
		return nil
	}
	return v
}
