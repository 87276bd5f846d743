package validation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/smazurov/avconv/internal/ffmpeg"
	"github.com/smazurov/avconv/internal/options"
	"github.com/smazurov/avconv/internal/types"
)

// Action is what happens to a value that fails its rule.
type Action int

const (
	// Substitute replaces the value with the rule default and still emits
	// the flag.
	Substitute Action = iota
	// Drop omits the flag.
	Drop
)

// Rule checks one codec-specific option and renders its flag.
type Rule struct {
	Option  string
	Flag    string
	Type    options.Type
	Default string
	// Domain describes the accepted values for listings ("0..51").
	Domain   string
	OnFailed Action

	valid func(any) bool
}

// Check reports whether v is accepted. Rules without a check accept anything.
func (r Rule) Check(v any) bool {
	return r.valid == nil || r.valid(v)
}

// Render returns the flag tokens for v and reports a diagnostic when v is
// rejected. ok is false when nothing should be emitted.
func (r Rule) Render(v any, sink types.DiagnosticSink) (tokens []string, ok bool) {
	if r.Check(v) {
		return []string{r.Flag, formatValue(v)}, true
	}

	value := formatValue(v)
	if r.OnFailed == Drop || r.Default == "" {
		sink.Report(types.Diagnostic{
			Option:   r.Option,
			Value:    value,
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf("%s is not a valid %s (%s), dropping it", value, r.Option, r.Domain),
		})
		return nil, false
	}

	sink.Report(types.Diagnostic{
		Option:   r.Option,
		Value:    value,
		Default:  r.Default,
		Severity: types.SeverityWarning,
		Message:  fmt.Sprintf("%s is not a valid %s (%s), using %s", value, r.Option, r.Domain, r.Default),
	})
	return []string{r.Flag, r.Default}, true
}

// OrDrop returns a copy of r that drops invalid values instead of
// substituting the default.
func (r Rule) OrDrop() Rule {
	r.OnFailed = Drop
	return r
}

// Enum accepts one of allowed string values.
func Enum(option, flag, def string, allowed ...string) Rule {
	return Rule{
		Option:  option,
		Flag:    flag,
		Type:    options.TypeString,
		Default: def,
		Domain:  strings.Join(allowed, "|"),
		valid: func(v any) bool {
			s, ok := v.(string)
			return ok && slices.Contains(allowed, s)
		},
	}
}

// IntRange accepts integers in [lo, hi].
func IntRange(option, flag string, lo, hi int, def string) Rule {
	return Rule{
		Option:  option,
		Flag:    flag,
		Type:    options.TypeInt,
		Default: def,
		Domain:  fmt.Sprintf("%d..%d", lo, hi),
		valid: func(v any) bool {
			i, ok := v.(int)
			return ok && i >= lo && i <= hi
		},
	}
}

// IntMin accepts integers greater than or equal to lo.
func IntMin(option, flag string, lo int, def string) Rule {
	return Rule{
		Option:  option,
		Flag:    flag,
		Type:    options.TypeInt,
		Default: def,
		Domain:  fmt.Sprintf(">= %d", lo),
		valid: func(v any) bool {
			i, ok := v.(int)
			return ok && i >= lo
		},
	}
}

// IntSet accepts one of allowed integers. Invalid values are dropped.
func IntSet(option, flag string, allowed ...int) Rule {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = strconv.Itoa(a)
	}
	return Rule{
		Option:   option,
		Flag:     flag,
		Type:     options.TypeInt,
		Domain:   strings.Join(names, "|"),
		OnFailed: Drop,
		valid: func(v any) bool {
			i, ok := v.(int)
			return ok && slices.Contains(allowed, i)
		},
	}
}

// FloatRange accepts floats in [lo, hi].
func FloatRange(option, flag string, lo, hi float64, def string) Rule {
	return Rule{
		Option:  option,
		Flag:    flag,
		Type:    options.TypeFloat,
		Default: def,
		Domain:  fmt.Sprintf("%s..%s", ffmpeg.FormatFloat(lo), ffmpeg.FormatFloat(hi)),
		valid: func(v any) bool {
			f, ok := v.(float64)
			return ok && f >= lo && f <= hi
		},
	}
}

// Switch renders a boolean as 1 or 0.
func Switch(option, flag string) Rule {
	return Rule{
		Option: option,
		Flag:   flag,
		Type:   options.TypeBool,
		Domain: "true|false",
		valid: func(v any) bool {
			_, ok := v.(bool)
			return ok
		},
	}
}

// Passthrough emits any value of the declared type.
func Passthrough(option, flag string, typ options.Type) Rule {
	return Rule{Option: option, Flag: flag, Type: typ, Domain: string(typ)}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return ffmpeg.FormatFloat(x)
	case bool:
		return ffmpeg.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// RuleSet is the ordered list of codec-specific rules of one encoder.
type RuleSet struct {
	Encoder string
	Rules   []Rule
}

// Schema returns the option declarations of the rule set.
func (s RuleSet) Schema() options.Schema {
	schema := make(options.Schema, len(s.Rules))
	for _, r := range s.Rules {
		schema[r.Option] = r.Type
	}
	return schema
}

// Lookup returns the rule for option.
func (s RuleSet) Lookup(option string) (Rule, bool) {
	i := slices.IndexFunc(s.Rules, func(r Rule) bool { return r.Option == option })
	if i < 0 {
		return Rule{}, false
	}
	return s.Rules[i], true
}

// Apply renders every rule whose option is present in opts, in rule order.
func (s RuleSet) Apply(opts options.Options, sink types.DiagnosticSink) []string {
	if sink == nil {
		sink = types.NopSink
	}
	var out []string
	for _, r := range s.Rules {
		v, present := opts[r.Option]
		if !present {
			continue
		}
		if tokens, ok := r.Render(v, sink); ok {
			out = append(out, tokens...)
		}
	}
	return out
}
