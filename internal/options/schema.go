package options

import (
	"maps"
	"slices"
)

// Type is the declared value type of an option.
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "integer"
	TypeFloat  Type = "float"
	TypeBool   Type = "boolean"
)

// Schema maps option names to their declared types.
type Schema map[string]Type

// Extend returns a new schema holding s with overrides applied on top.
// Neither receiver nor argument is modified.
func (s Schema) Extend(overrides Schema) Schema {
	out := make(Schema, len(s)+len(overrides))
	maps.Copy(out, s)
	maps.Copy(out, overrides)
	return out
}

// Lookup returns the declared type of key.
func (s Schema) Lookup(key string) (Type, bool) {
	t, ok := s[key]
	return t, ok
}

// Names returns the declared option names in sorted order.
func (s Schema) Names() []string {
	return slices.Sorted(maps.Keys(s))
}
