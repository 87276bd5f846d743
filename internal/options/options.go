package options

import (
	"maps"
	"slices"
)

// Options is a coerced option mapping. Values are string, int, float64 or
// bool, matching the declared schema type. Transforms return new maps and
// leave the receiver untouched.
type Options map[string]any

// Clone returns a shallow copy of o. A nil receiver yields an empty map.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	maps.Copy(out, o)
	return out
}

// With returns a copy of o with key set to value.
func (o Options) With(key string, value any) Options {
	out := o.Clone()
	out[key] = value
	return out
}

// Without returns a copy of o with keys removed.
func (o Options) Without(keys ...string) Options {
	out := o.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Has reports whether key is present.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Keys returns the present keys in sorted order.
func (o Options) Keys() []string {
	return slices.Sorted(maps.Keys(o))
}

// String returns the value of key if it is a string.
func (o Options) String(key string) (string, bool) {
	v, ok := o[key].(string)
	return v, ok
}

// Int returns the value of key if it is an int.
func (o Options) Int(key string) (int, bool) {
	v, ok := o[key].(int)
	return v, ok
}

// Float returns the value of key if it is a float64.
func (o Options) Float(key string) (float64, bool) {
	v, ok := o[key].(float64)
	return v, ok
}

// Bool returns the value of key if it is a bool.
func (o Options) Bool(key string) (bool, bool) {
	v, ok := o[key].(bool)
	return v, ok
}
