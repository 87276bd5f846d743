package options

import (
	"errors"
	"fmt"
)

// ErrUndeclared is the reason attached to rejections of unknown keys.
var ErrUndeclared = errors.New("option is not declared for this codec")

// Rejection describes a raw option removed by Filter.
type Rejection struct {
	Key   string
	Value any
	Err   error
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s=%v: %v", r.Key, r.Value, r.Err)
}

// Filter keeps the raw options declared in schema whose values coerce to the
// declared type. Everything else is returned as a rejection, ordered by key.
// Filter never fails.
func Filter(schema Schema, raw map[string]any) (Options, []Rejection) {
	safe := make(Options, len(raw))
	var rejected []Rejection

	for _, key := range Options(raw).Keys() {
		value := raw[key]
		typ, declared := schema.Lookup(key)
		if !declared {
			rejected = append(rejected, Rejection{Key: key, Value: value, Err: ErrUndeclared})
			continue
		}
		coerced, err := Coerce(value, typ)
		if err != nil {
			rejected = append(rejected, Rejection{Key: key, Value: value, Err: err})
			continue
		}
		safe[key] = coerced
	}

	return safe, rejected
}
