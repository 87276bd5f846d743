package geometry

import (
	"math"
	"strings"
	"testing"

	"github.com/smazurov/avconv/internal/types"
)

type size struct{ w, h int }

var (
	testSources = []size{
		{1920, 1080}, {1080, 1920}, {640, 480}, {3840, 2160},
		{17, 3001}, {100, 100}, {1281, 719}, {720, 576},
	}
	testMaxima = []size{
		{640, 640}, {1280, 720}, {320, 240}, {16, 16}, {4000, 16}, {16, 3000},
	}
)

func TestResolveScenarios(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantWidth  int
		wantHeight int
		wantFilter string
	}{
		{
			name:       "fill wide source into square",
			in:         Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, MaxHeight: 640, Policy: Fill},
			wantWidth:  1138,
			wantHeight: 640,
			wantFilter: "crop=640:640:248:0",
		},
		{
			name:       "fill tall source into square",
			in:         Input{SourceWidth: 1080, SourceHeight: 1920, MaxWidth: 640, MaxHeight: 640, Policy: Fill},
			wantWidth:  640,
			wantHeight: 1138,
			wantFilter: "crop=640:640:0:248",
		},
		{
			name:       "fill same aspect",
			in:         Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 1280, MaxHeight: 720, Policy: Fill},
			wantWidth:  1280,
			wantHeight: 720,
		},
		{
			name:       "fit wide source",
			in:         Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, MaxHeight: 640, Policy: Fit},
			wantWidth:  640,
			wantHeight: 360,
		},
		{
			name:       "fit tall source",
			in:         Input{SourceWidth: 1080, SourceHeight: 1920, MaxWidth: 640, MaxHeight: 640, Policy: Fit},
			wantWidth:  360,
			wantHeight: 640,
		},
		{
			name:       "fit upscales",
			in:         Input{SourceWidth: 320, SourceHeight: 240, MaxWidth: 1280, MaxHeight: 720, Policy: Fit},
			wantWidth:  960,
			wantHeight: 720,
		},
		{
			name:       "keep rounds odd source up",
			in:         Input{SourceWidth: 1281, SourceHeight: 719, MaxWidth: 640, MaxHeight: 640, Policy: Keep},
			wantWidth:  1282,
			wantHeight: 720,
		},
		{
			name:       "empty policy keeps source",
			in:         Input{SourceWidth: 720, SourceHeight: 576, MaxWidth: 640, MaxHeight: 640},
			wantWidth:  720,
			wantHeight: 576,
		},
		{
			name:       "shrink to fit shrinks large source",
			in:         Input{SourceWidth: 3840, SourceHeight: 2160, MaxWidth: 1280, MaxHeight: 720, Policy: ShrinkToFit},
			wantWidth:  1280,
			wantHeight: 720,
		},
		{
			name:       "shrink to fit never upscales",
			in:         Input{SourceWidth: 320, SourceHeight: 240, MaxWidth: 1280, MaxHeight: 720, Policy: ShrinkToFit},
			wantWidth:  320,
			wantHeight: 240,
		},
		{
			name:       "shrink to fill source within maxima",
			in:         Input{SourceWidth: 320, SourceHeight: 240, MaxWidth: 1280, MaxHeight: 720, Policy: ShrinkToFill},
			wantWidth:  1280,
			wantHeight: 960,
			wantFilter: "crop=1280:720:0:120",
		},
		{
			name:       "shrink to fill large source unchanged",
			in:         Input{SourceWidth: 3840, SourceHeight: 2160, MaxWidth: 1280, MaxHeight: 720, Policy: ShrinkToFill},
			wantWidth:  3840,
			wantHeight: 2160,
		},
		{
			name:       "valid crop overrides source",
			in:         Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, MaxHeight: 640, Policy: Fit, Crop: "1280:720:320:180"},
			wantWidth:  640,
			wantHeight: 360,
		},
		{
			name:       "crop with tall region",
			in:         Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, MaxHeight: 640, Policy: Keep, Crop: "600:1000:0:0"},
			wantWidth:  600,
			wantHeight: 1000,
		},
		{
			name:       "crop too small falls back to source",
			in:         Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, MaxHeight: 640, Policy: Keep, Crop: "8:720:0:0"},
			wantWidth:  1920,
			wantHeight: 1080,
		},
		{
			name:       "malformed crop falls back to source",
			in:         Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, MaxHeight: 640, Policy: Keep, Crop: "half"},
			wantWidth:  1920,
			wantHeight: 1080,
		},
		{
			name:       "missing source returns maxima",
			in:         Input{MaxWidth: 640, MaxHeight: 480, Policy: Fill},
			wantWidth:  640,
			wantHeight: 480,
		},
		{
			name: "missing max height leaves size absent",
			in:   Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, Policy: Fit},
		},
		{
			name: "nothing known",
			in:   Input{Policy: Stretch},
		},
		{
			name:       "autorotate 90 swaps",
			in:         Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, MaxHeight: 640, Policy: Fit, Autorotate: true, SourceRotate: 90},
			wantWidth:  360,
			wantHeight: 640,
		},
		{
			name:       "autorotate 180 does not swap",
			in:         Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, MaxHeight: 640, Policy: Fit, Autorotate: true, SourceRotate: 180},
			wantWidth:  640,
			wantHeight: 360,
		},
		{
			name:       "rotation ignored without autorotate",
			in:         Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, MaxHeight: 640, Policy: Fit, SourceRotate: 270},
			wantWidth:  640,
			wantHeight: 360,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c types.Collector
			got := Resolve(tt.in, &c)

			if got.Width != tt.wantWidth || got.Height != tt.wantHeight {
				t.Errorf("size = %dx%d, want %dx%d", got.Width, got.Height, tt.wantWidth, tt.wantHeight)
			}
			if got.Filter != tt.wantFilter {
				t.Errorf("filter = %q, want %q", got.Filter, tt.wantFilter)
			}
			if n := len(c.Diagnostics()); n != 0 {
				t.Errorf("unexpected diagnostics: %v", c.Diagnostics())
			}
		})
	}
}

func TestResolveUnknownPolicy(t *testing.T) {
	var c types.Collector
	got := Resolve(Input{SourceWidth: 1920, SourceHeight: 1080, MaxWidth: 640, MaxHeight: 640, Policy: "Squash"}, &c)

	if got.Width != 1920 || got.Height != 1080 || got.Filter != "" {
		t.Errorf("Resolve() = %+v, want source size without filter", got)
	}

	warnings := c.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Option != "sizing_policy" || warnings[0].Value != "Squash" {
		t.Errorf("warning = %+v", warnings[0])
	}
}

func TestResolveNilSink(t *testing.T) {
	got := Resolve(Input{SourceWidth: 100, SourceHeight: 100, MaxWidth: 50, MaxHeight: 50, Policy: "bogus"}, nil)
	if got.Width != 100 || got.Height != 100 {
		t.Errorf("Resolve() = %+v", got)
	}
}

func TestResolveStretchIsExactMaxima(t *testing.T) {
	for _, src := range testSources {
		for _, m := range testMaxima {
			got := Resolve(Input{SourceWidth: src.w, SourceHeight: src.h, MaxWidth: m.w, MaxHeight: m.h, Policy: Stretch}, nil)
			if got.Width != m.w || got.Height != m.h {
				t.Errorf("Stretch %v into %v = %dx%d", src, m, got.Width, got.Height)
			}
		}
	}
}

func TestResolveFitWithinMaxima(t *testing.T) {
	for _, policy := range []Policy{Fit, ShrinkToFit} {
		for _, src := range testSources {
			for _, m := range testMaxima {
				got := Resolve(Input{SourceWidth: src.w, SourceHeight: src.h, MaxWidth: m.w, MaxHeight: m.h, Policy: policy}, nil)

				exceeds := src.w > m.w || src.h > m.h
				if policy == ShrinkToFit && !exceeds {
					if got.Width != roundEven(src.w) || got.Height != roundEven(src.h) {
						t.Errorf("%s %v into %v = %dx%d, want source size", policy, src, m, got.Width, got.Height)
					}
					continue
				}

				if got.Width > m.w || got.Height > m.h {
					t.Errorf("%s %v into %v = %dx%d exceeds maxima", policy, src, m, got.Width, got.Height)
				}
				// Truncation and even rounding each move a dimension by at most 1px.
				diff := got.Width*src.h - got.Height*src.w
				if diff < 0 {
					diff = -diff
				}
				if limit := 2 * max(src.w, src.h); diff > limit {
					t.Errorf("%s %v into %v = %dx%d does not preserve aspect (diff %d)", policy, src, m, got.Width, got.Height, diff)
				}
			}
		}
	}
}

func TestResolveShrinkToFillKeepsCoveringSource(t *testing.T) {
	for _, src := range testSources {
		for _, m := range testMaxima {
			if src.w < m.w || src.h < m.h {
				continue
			}
			got := Resolve(Input{SourceWidth: src.w, SourceHeight: src.h, MaxWidth: m.w, MaxHeight: m.h, Policy: ShrinkToFill}, nil)
			if got.Width != roundEven(src.w) || got.Height != roundEven(src.h) || got.Filter != "" {
				t.Errorf("ShrinkToFill %v into %v = %+v, want source size", src, m, got)
			}
		}
	}
}

func TestResolveEvenOrAbsent(t *testing.T) {
	sources := append([]size{{0, 0}, {0, 1080}, {1921, 0}}, testSources...)
	maxima := append([]size{{0, 0}, {640, 0}, {0, 641}, {641, 479}}, testMaxima...)

	for _, policy := range append([]Policy{"", "unknown"}, Policies...) {
		for _, src := range sources {
			for _, m := range maxima {
				got := Resolve(Input{SourceWidth: src.w, SourceHeight: src.h, MaxWidth: m.w, MaxHeight: m.h, Policy: policy}, nil)
				bothAbsent := got.Width == 0 && got.Height == 0
				bothEven := got.Width > 0 && got.Height > 0 && got.Width%2 == 0 && got.Height%2 == 0
				if !bothAbsent && !bothEven {
					t.Errorf("%q %v into %v = %dx%d", policy, src, m, got.Width, got.Height)
				}
				if bothAbsent && got.Aspect() != "" {
					t.Errorf("absent size has aspect %q", got.Aspect())
				}
			}
		}
	}
}

func TestResolveRotationSwaps(t *testing.T) {
	for _, policy := range Policies {
		for _, src := range testSources {
			for _, m := range testMaxima {
				base := Input{SourceWidth: src.w, SourceHeight: src.h, MaxWidth: m.w, MaxHeight: m.h, Policy: policy}
				plain := Resolve(base, nil)

				for _, deg := range []int{90, 270} {
					rotated := base
					rotated.Autorotate = true
					rotated.SourceRotate = deg
					got := Resolve(rotated, nil)
					if got.Width != plain.Height || got.Height != plain.Width {
						t.Errorf("%s %v into %v rotated %d = %dx%d, want %dx%d",
							policy, src, m, deg, got.Width, got.Height, plain.Height, plain.Width)
					}
				}
			}
		}
	}
}

func TestResultAspect(t *testing.T) {
	r := Result{Width: 640, Height: 360}
	if r.Aspect() != "640:360" {
		t.Errorf("Aspect() = %q", r.Aspect())
	}
	if r.Size() != "640x360" {
		t.Errorf("Size() = %q", r.Size())
	}
}

func TestParseCrop(t *testing.T) {
	tests := []struct {
		crop    string
		w, h    int
		wantErr bool
	}{
		{"1280:720:0:0", 1280, 720, false},
		{" 640 : 480 :10:10", 640, 480, false},
		{"1280:720", 0, 0, true},
		{"1280:720:0:0:0", 0, 0, true},
		{"a:720:0:0", 0, 0, true},
		{"1280:b:0:0", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		w, h, err := ParseCrop(tt.crop)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCrop(%q) error = %v, wantErr %v", tt.crop, err, tt.wantErr)
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("ParseCrop(%q) = %d, %d, want %d, %d", tt.crop, w, h, tt.w, tt.h)
		}
	}
}

func TestResolveOversizedSource(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantWidth  int
		wantHeight int
		wantDrops  []string
	}{
		{
			name:       "huge width with fit falls back to maxima",
			in:         Input{SourceWidth: 1 << 50, SourceHeight: 1081, MaxWidth: 640, MaxHeight: 640, Policy: Fit},
			wantWidth:  640,
			wantHeight: 640,
			wantDrops:  []string{"src_width"},
		},
		{
			name:       "max int with keep",
			in:         Input{SourceWidth: math.MaxInt, SourceHeight: 1080, MaxWidth: 1280, MaxHeight: 720, Policy: Keep},
			wantWidth:  1280,
			wantHeight: 720,
			wantDrops:  []string{"src_width"},
		},
		{
			name:       "negative height",
			in:         Input{SourceWidth: 1920, SourceHeight: -4, MaxWidth: 320, MaxHeight: 240, Policy: Fill},
			wantWidth:  320,
			wantHeight: 240,
			wantDrops:  []string{"src_height"},
		},
		{
			name:       "bound itself is accepted",
			in:         Input{SourceWidth: MaxSourceDimension, SourceHeight: MaxSourceDimension, MaxWidth: 640, MaxHeight: 640, Policy: Keep},
			wantWidth:  MaxSourceDimension,
			wantHeight: MaxSourceDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c types.Collector
			got := Resolve(tt.in, &c)
			if got.Width != tt.wantWidth || got.Height != tt.wantHeight {
				t.Errorf("Resolve() = %dx%d, want %dx%d", got.Width, got.Height, tt.wantWidth, tt.wantHeight)
			}

			var drops []string
			for _, d := range c.Diagnostics() {
				if d.Severity == types.SeverityDropped {
					drops = append(drops, d.Option)
				}
			}
			if strings.Join(drops, ",") != strings.Join(tt.wantDrops, ",") {
				t.Errorf("dropped options = %v, want %v", drops, tt.wantDrops)
			}
		})
	}
}
