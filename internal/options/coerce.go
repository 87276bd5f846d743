package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

var (
	errNil       = errors.New("value is nil")
	errNotFinite = errors.New("value is not finite")
	errOverflow  = errors.New("value overflows int")
)

// CoercionError reports that a value could not be converted to a declared type.
type CoercionError struct {
	Value  any
	Target Type
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %v (%T) to %s: %v", e.Value, e.Value, e.Target, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// Coerce converts value to the Go representation of target:
// string, int, float64 or bool.
//
// Numbers convert between each other (floats truncate toward zero when
// converted to integers), strings are parsed, and booleans map to 0/1.
// nil, NaN and infinities are rejected.
func Coerce(value any, target Type) (any, error) {
	var (
		out any
		err error
	)
	switch target {
	case TypeString:
		out, err = toString(value)
	case TypeInt:
		out, err = toInt(value)
	case TypeFloat:
		out, err = toFloat(value)
	case TypeBool:
		out, err = toBool(value)
	default:
		err = fmt.Errorf("unknown target type %q", target)
	}
	if err != nil {
		return nil, &CoercionError{Value: value, Target: target, Err: err}
	}
	return out, nil
}

// normalize rejects what cast would silently turn into a zero value and
// resolves json.Number to int64 or float64.
func normalize(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, errNil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return f, finite(f)
	case float32:
		return float64(v), finite(float64(v))
	case float64:
		return v, finite(v)
	case string:
		return strings.TrimSpace(v), nil
	}
	return value, nil
}

func finite(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errNotFinite
	}
	return nil
}

func toString(value any) (string, error) {
	if value == nil {
		return "", errNil
	}
	switch v := value.(type) {
	case float32:
		if err := finite(float64(v)); err != nil {
			return "", err
		}
	case float64:
		if err := finite(v); err != nil {
			return "", err
		}
	}
	return cast.ToStringE(value)
}

func toInt(value any) (int, error) {
	v, err := normalize(value)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		if t := math.Trunc(n); t >= math.MaxInt || t < math.MinInt {
			return 0, errOverflow
		}
	case uint64:
		if n > math.MaxInt {
			return 0, errOverflow
		}
	case uint:
		if uint64(n) > math.MaxInt {
			return 0, errOverflow
		}
	}
	return cast.ToIntE(v)
}

func toFloat(value any) (float64, error) {
	v, err := normalize(value)
	if err != nil {
		return 0, err
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	return f, finite(f)
}

func toBool(value any) (bool, error) {
	v, err := normalize(value)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(b) {
		case "":
			return false, nil
		case "yes", "on":
			return true, nil
		case "no", "off":
			return false, nil
		}
		return cast.ToBoolE(b)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return false, err
	}
	return f != 0, nil
}
