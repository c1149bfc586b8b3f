package strata

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMap
)

// String returns a human-readable name for the kind.
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
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is the semi-structured tree every configuration source produces
// before typed decoding. It is one of null, bool, number, string, sequence,
// or map. Map nodes remember insertion order and keys are unique. Values are
// treated as immutable once a source reader hands them off; Merge builds new
// nodes instead of rewriting its inputs.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	isInt bool
	s     string
	seq   []*Value
	keys  []string
	m     map[string]*Value
}

// Null returns the null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// BoolValue returns a boolean leaf.
func BoolValue(b bool) *Value {
	return &Value{kind: KindBool, b: b}
}

// IntValue returns an integer number leaf.
func IntValue(i int64) *Value {
	return &Value{kind: KindNumber, i: i, isInt: true}
}

// FloatValue returns a floating-point number leaf.
func FloatValue(f float64) *Value {
	return &Value{kind: KindNumber, f: f}
}

// StringValue returns a string leaf.
func StringValue(s string) *Value {
	return &Value{kind: KindString, s: s}
}

// SequenceValue returns an ordered sequence node.
func SequenceValue(items ...*Value) *Value {
	return &Value{kind: KindSequence, seq: items}
}

// NewMap returns an empty ordered map node.
func NewMap() *Value {
	return &Value{kind: KindMap, m: make(map[string]*Value)}
}

// Kind reports the shape of the value. A nil value reports KindNull.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is null (or nil).
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// Bool returns the boolean payload. Valid only for KindBool.
func (v *Value) Bool() bool { return v.b }

// Int returns the integer payload. Valid only for integer numbers.
func (v *Value) Int() int64 { return v.i }

// Float returns the numeric payload as a float, converting integers.
func (v *Value) Float() float64 {
	if v.isInt {
		return float64(v.i)
	}
	return v.f
}

// IsInt reports whether a number value carries an integer.
func (v *Value) IsInt() bool { return v.kind == KindNumber && v.isInt }

// Str returns the string payload. Valid only for KindString.
func (v *Value) Str() string { return v.s }

// Items returns the elements of a sequence node.
func (v *Value) Items() []*Value { return v.seq }

// Keys returns the map keys in insertion order.
func (v *Value) Keys() []string { return v.keys }

// Len returns the number of entries in a map or sequence node.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	if v.kind == KindSequence {
		return len(v.seq)
	}
	return len(v.keys)
}

// Get returns the map entry for key, if present.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.kind != KindMap {
		return nil, false
	}
	child, ok := v.m[key]
	return child, ok
}

// Set inserts or replaces a map entry. Replacing keeps the key's original
// position; inserting appends it.
func (v *Value) Set(key string, child *Value) {
	if v.kind != KindMap {
		return
	}
	if _, ok := v.m[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.m[key] = child
}

// Lookup follows a dotted path through nested maps. It returns false when any
// intermediate node is absent or not a map.
func (v *Value) Lookup(path string) (*Value, bool) {
	cur := v
	for _, key := range strings.Split(path, ".") {
		if cur == nil || cur.kind != KindMap {
			return nil, false
		}
		next, ok := cur.m[key]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// setPath inserts child at the dotted path, creating intermediate maps as
// needed. Existing non-map intermediates are replaced.
func setPath(root *Value, path string, child *Value) {
	parts := strings.Split(path, ".")
	cur := root
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur.Get(p)
		if !ok || next.Kind() != KindMap {
			next = NewMap()
			cur.Set(p, next)
		}
		cur = next
	}
	cur.Set(parts[len(parts)-1], child)
}

// Equal reports structural equality. Integer and floating-point numbers are
// distinct even when numerically equal; map equality respects key order.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v.IsNull() && other.IsNull()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		if v.isInt != other.isInt {
			return false
		}
		if v.isInt {
			return v.i == other.i
		}
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindSequence:
		if len(v.seq) != len(other.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(other.seq[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.keys) != len(other.keys) {
			return false
		}
		for i, key := range v.keys {
			if other.keys[i] != key {
				return false
			}
			if !v.m[key].Equal(other.m[key]) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of the value.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindSequence:
		items := make([]*Value, len(v.seq))
		for i, item := range v.seq {
			items[i] = item.Clone()
		}
		return SequenceValue(items...)
	case KindMap:
		out := NewMap()
		for _, key := range v.keys {
			out.Set(key, v.m[key].Clone())
		}
		return out
	default:
		cp := *v
		return &cp
	}
}

// String renders the value in a compact JSON-like form, primarily for
// diagnostics and help text.
func (v *Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v *Value) write(b *strings.Builder) {
	if v == nil {
		b.WriteString("null")
		return
	}
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if v.isInt {
			b.WriteString(strconv.FormatInt(v.i, 10))
		} else {
			b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
		}
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindSequence:
		b.WriteByte('[')
		for i, item := range v.seq {
			if i > 0 {
				b.WriteByte(',')
			}
			item.write(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(key))
			b.WriteByte(':')
			v.m[key].write(b)
		}
		b.WriteByte('}')
	}
}

// ToAny converts the tree into plain Go values (nil, bool, int64, float64,
// string, []any, map[string]any) for consumption by the typed decoder. Map
// ordering is not preserved across this boundary.
func (v *Value) ToAny() any {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		if v.isInt {
			return v.i
		}
		return v.f
	case KindString:
		return v.s
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.ToAny()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.keys))
		for _, key := range v.keys {
			out[key] = v.m[key].ToAny()
		}
		return out
	}
	return nil
}

// FromAny converts plain Go values produced by third-party parsers into a
// Value tree. Map keys are sorted because Go maps carry no order of their
// own; timestamps become RFC 3339 strings.
func FromAny(src any) (*Value, error) {
	switch t := src.(type) {
	case nil:
		return Null(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int8:
		return IntValue(int64(t)), nil
	case int16:
		return IntValue(int64(t)), nil
	case int32:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case uint:
		return IntValue(int64(t)), nil
	case uint8:
		return IntValue(int64(t)), nil
	case uint16:
		return IntValue(int64(t)), nil
	case uint32:
		return IntValue(int64(t)), nil
	case uint64:
		return IntValue(int64(t)), nil
	case float32:
		return FloatValue(float64(t)), nil
	case float64:
		return FloatValue(t), nil
	case time.Time:
		return StringValue(t.Format(time.RFC3339)), nil
	case []any:
		items := make([]*Value, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return SequenceValue(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := NewMap()
		for _, key := range keys {
			v, err := FromAny(t[key])
			if err != nil {
				return nil, err
			}
			out.Set(key, v)
		}
		return out, nil
	}

	// TOML decodes arrays of tables as []map[string]any and similar
	// concrete slice types; fall back to reflection for those.
	rv := reflect.ValueOf(src)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]*Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return SequenceValue(items...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("strata: unsupported map key type %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
		sort.Strings(keys)
		out := NewMap()
		for _, key := range keys {
			v, err := FromAny(rv.MapIndex(reflect.ValueOf(key)).Interface())
			if err != nil {
				return nil, err
			}
			out.Set(key, v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("strata: unsupported value type %T", src)
}
