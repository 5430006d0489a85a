// Package document holds schema-less dashboard documents.
//
// Values are *Object, []any, string, Number, float64, bool or nil. Decoded
// numbers stay Number literals until something rewrites them, and objects
// keep the key order they were decoded with, so regenerated files diff
// cleanly against their baseline.
package document

import "strconv"

// Number is a JSON number literal as it appeared in the input.
type Number string

func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Float returns the numeric value of a Number or float64.
func Float(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Object is a JSON object that remembers insertion order.
type Object struct {
	keys   []string
	values map[string]any
}

func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

func (o *Object) Len() int {
	return len(o.keys)
}

func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set replaces the value in place when the key exists and appends it otherwise.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Object returns the nested object stored at key, if any.
func (o *Object) Object(key string) (*Object, bool) {
	v, ok := o.values[key]
	if !ok {
		return nil, false
	}
	child, ok := v.(*Object)
	return child, ok && child != nil
}

// Resolve walks path through nested objects. It reports false when a segment
// is missing or is not an object.
func (o *Object) Resolve(path []string) (*Object, bool) {
	cur := o
	for _, seg := range path {
		next, ok := cur.Object(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Lookup returns the value at path.
func (o *Object) Lookup(path []string) (any, bool) {
	if len(path) == 0 {
		return o, true
	}
	parent, ok := o.Resolve(path[:len(path)-1])
	if !ok {
		return nil, false
	}
	return parent.Get(path[len(path)-1])
}

func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := &Object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]any, len(o.values)),
	}
	for k, v := range o.values {
		out.values[k] = Clone(v)
	}
	return out
}

// Clone deep-copies any document value.
func Clone(v any) any {
	switch v := v.(type) {
	case *Object:
		return v.Clone()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}
