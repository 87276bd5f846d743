package options

import (
	"errors"
	"testing"
)

var testSchema = Schema{
	"channels": TypeInt,
	"bitrate":  TypeInt,
	"filters":  TypeString,
	"volume":   TypeFloat,
	"cbr":      TypeBool,
}

func TestFilter(t *testing.T) {
	raw := map[string]any{
		"channels": "2",
		"bitrate":  "loud",
		"filters":  "aresample=48000",
		"volume":   -3,
		"cbr":      1,
		"unknown":  "x",
	}

	safe, rejected := Filter(testSchema, raw)

	if v, ok := safe.Int("channels"); !ok || v != 2 {
		t.Errorf("channels = %v, %v; want 2, true", v, ok)
	}
	if v, ok := safe.String("filters"); !ok || v != "aresample=48000" {
		t.Errorf("filters = %q, %v", v, ok)
	}
	if v, ok := safe.Float("volume"); !ok || v != -3 {
		t.Errorf("volume = %v, %v; want -3, true", v, ok)
	}
	if v, ok := safe.Bool("cbr"); !ok || !v {
		t.Errorf("cbr = %v, %v; want true, true", v, ok)
	}
	if safe.Has("bitrate") {
		t.Error("bitrate with uncoercible value should be dropped")
	}
	if safe.Has("unknown") {
		t.Error("undeclared key should be dropped")
	}

	if len(rejected) != 2 {
		t.Fatalf("expected 2 rejections, got %d: %v", len(rejected), rejected)
	}
	if rejected[0].Key != "bitrate" || rejected[1].Key != "unknown" {
		t.Errorf("rejections not sorted by key: %v", rejected)
	}
	if !errors.Is(rejected[1].Err, ErrUndeclared) {
		t.Errorf("unknown key rejection = %v, want ErrUndeclared", rejected[1].Err)
	}
	var coercionErr *CoercionError
	if !errors.As(rejected[0].Err, &coercionErr) {
		t.Errorf("bitrate rejection = %T, want *CoercionError", rejected[0].Err)
	}
}

func TestFilterKeysSubsetOfSchema(t *testing.T) {
	raws := []map[string]any{
		nil,
		{},
		{"channels": 6, "codec": "aac", "extra": nil},
		{"volume": "1.5", "cbr": "no", "filters": 12},
		{"bitrate": 3.9, "channels": nil},
	}

	for _, raw := range raws {
		safe, _ := Filter(testSchema, raw)
		for key, value := range safe {
			typ, ok := testSchema.Lookup(key)
			if !ok {
				t.Errorf("key %q not declared in schema", key)
				continue
			}
			if _, err := Coerce(value, typ); err != nil {
				t.Errorf("value %v for %q does not match %s", value, key, typ)
			}
		}
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	raw := map[string]any{"channels": "2", "unknown": true}
	Filter(testSchema, raw)
	if raw["channels"] != "2" || raw["unknown"] != true {
		t.Errorf("raw input modified: %v", raw)
	}
}

func TestSchemaExtend(t *testing.T) {
	base := Schema{"codec": TypeString, "quality": TypeInt}
	ext := base.Extend(Schema{"quality": TypeFloat, "preset": TypeString})

	if base["quality"] != TypeInt {
		t.Error("Extend modified the base schema")
	}
	if ext["quality"] != TypeFloat {
		t.Errorf("override not applied: %s", ext["quality"])
	}
	want := []string{"codec", "preset", "quality"}
	got := ext.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOptionsTransformsAreCopies(t *testing.T) {
	o := Options{"a": 1}
	with := o.With("b", 2)
	without := with.Without("a")

	if o.Has("b") {
		t.Error("With modified receiver")
	}
	if !with.Has("a") {
		t.Error("Without modified receiver")
	}
	if without.Has("a") || !without.Has("b") {
		t.Errorf("Without result = %v", without)
	}
}
