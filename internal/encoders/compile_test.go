package encoders

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/smazurov/avconv/internal/types"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name string
		kind types.StreamKind
		req  Request
		want []string
	}{
		{
			name: "vorbis drops out of range bitrate",
			kind: types.StreamAudio,
			req:  Request{Codec: "vorbis", Options: map[string]any{"channels": 2, "bitrate": 999}},
			want: []string{"-acodec", "libvorbis", "-ac", "2"},
		},
		{
			name: "aac full audio set",
			kind: types.StreamAudio,
			req: Request{Codec: "aac", Options: map[string]any{
				"channels": "2", "bitrate": 128, "samplerate": 48000,
				"volume": -3, "filters": "aresample=async=1",
			}},
			want: []string{
				"-acodec", "aac", "-ac", "2", "-ab", "128k", "-ar", "48000",
				"-af", "volume=-3.0dB,aresample=async=1", "-strict", "experimental",
			},
		},
		{
			name: "vorbis quality",
			kind: types.StreamAudio,
			req:  Request{Codec: "vorbis", Options: map[string]any{"quality": 4}},
			want: []string{"-acodec", "libvorbis", "-qscale:a", "4"},
		},
		{
			name: "audio null",
			kind: types.StreamAudio,
			req:  Request{Codec: "null", Options: map[string]any{"channels": 2}},
			want: []string{"-an"},
		},
		{
			name: "audio copy",
			kind: types.StreamAudio,
			req:  Request{Codec: "copy", Options: map[string]any{"bitrate": 9999}},
			want: []string{"-acodec", "copy"},
		},
		{
			name: "fill crops the wide axis",
			kind: types.StreamVideo,
			req: Request{Codec: "h264", Options: map[string]any{
				"src_width": 1920, "src_height": 1080,
				"max_width": 640, "max_height": 640, "sizing_policy": "Fill",
			}},
			want: []string{
				"-vcodec", "libx264", "-pix_fmt", "yuv420p",
				"-s", "1138x640", "-aspect", "1138:640",
				"-vf", "crop=640:640:248:0",
			},
		},
		{
			name: "rate tokens",
			kind: types.StreamVideo,
			req: Request{Codec: "divx", Options: map[string]any{
				"fps": 23.5, "bitrate": 2.5, "bufsize": 500, "pix_fmt": "yuv422p",
			}},
			want: []string{
				"-vcodec", "mpeg4", "-pix_fmt", "yuv422p",
				"-r", "23.50", "-vb", "2.5M", "-bufsize", "500k",
			},
		},
		{
			name: "integral video bitrate keeps a decimal",
			kind: types.StreamVideo,
			req:  Request{Codec: "vp8", Options: map[string]any{"bitrate": 2}},
			want: []string{"-vcodec", "libvpx", "-pix_fmt", "yuv420p", "-vb", "2.0M"},
		},
		{
			name: "filter order crop geometry rotation user",
			kind: types.StreamVideo,
			req: Request{Codec: "h264", Options: map[string]any{
				"crop": "1280:720:0:0", "max_width": 640, "max_height": 640,
				"sizing_policy": "Fill", "autorotate": true, "src_rotate": 90,
				"filters": "hflip",
			}},
			want: []string{
				"-vcodec", "libx264", "-pix_fmt", "yuv420p",
				"-s", "640x1138", "-aspect", "640:1138",
				"-vf", "crop=1280:720:0:0,crop=640:640:248:0,transpose=1,hflip",
			},
		},
		{
			name: "rotation filter without geometry",
			kind: types.StreamVideo,
			req:  Request{Codec: "flv", Options: map[string]any{"autorotate": "yes", "src_rotate": 180}},
			want: []string{"-vcodec", "flv", "-pix_fmt", "yuv420p", "-vf", "transpose=2,transpose=2"},
		},
		{
			name: "mpeg prepends aspect filter",
			kind: types.StreamVideo,
			req: Request{Codec: "mpeg2", Options: map[string]any{
				"src_width": 1920, "src_height": 1080,
				"max_width": 640, "max_height": 640, "sizing_policy": "Fill",
			}},
			want: []string{
				"-vcodec", "mpeg2video", "-pix_fmt", "yuv420p",
				"-s", "1138x640", "-aspect", "1138:640",
				"-vf", "aspect=1138:640,crop=640:640:248:0",
			},
		},
		{
			name: "mpeg aspect alone",
			kind: types.StreamVideo,
			req:  Request{Codec: "mpeg1", Options: map[string]any{"max_width": 352, "max_height": 288, "sizing_policy": "Stretch", "src_width": 720, "src_height": 576}},
			want: []string{
				"-vcodec", "mpeg1video", "-pix_fmt", "yuv420p",
				"-s", "352x288", "-aspect", "352:288", "-vf", "aspect=352:288",
			},
		},
		{
			name: "odd maxima rounded up",
			kind: types.StreamVideo,
			req:  Request{Codec: "h263", Options: map[string]any{"max_width": 351, "max_height": 287}},
			want: []string{"-vcodec", "h263", "-pix_fmt", "yuv420p", "-s", "352x288", "-aspect", "352:288"},
		},
		{
			name: "x264 specific flags follow generic ones",
			kind: types.StreamVideo,
			req:  Request{Codec: "h264", Options: map[string]any{"quality": 20, "preset": "slow", "fps": 30}},
			want: []string{"-vcodec", "libx264", "-pix_fmt", "yuv420p", "-r", "30.00", "-preset", "slow", "-crf", "20"},
		},
		{
			name: "nvenc substitutes invalid preset",
			kind: types.StreamVideo,
			req:  Request{Codec: "nvenc_h264", Options: map[string]any{"preset": "warp", "cq": 20}},
			want: []string{"-vcodec", "h264_nvenc", "-pix_fmt", "yuv420p", "-preset", "medium", "-cq", "20.0"},
		},
		{
			name: "ffv1 archival settings",
			kind: types.StreamVideo,
			req:  Request{Codec: "ffv1", Options: map[string]any{"level": 3, "g": 1, "slices": 7}},
			want: []string{"-vcodec", "ffv1", "-pix_fmt", "yuv420p", "-level", "3", "-g", "1"},
		},
		{
			name: "video null",
			kind: types.StreamVideo,
			req:  Request{Codec: "null"},
			want: []string{"-vn"},
		},
		{
			name: "mov_text emits no subtitle options",
			kind: types.StreamSubtitle,
			req:  Request{Codec: "mov_text", Options: map[string]any{"language": "eng", "forced": 1}},
			want: []string{"-scodec", "mov_text"},
		},
		{
			name: "subtitle copy",
			kind: types.StreamSubtitle,
			req:  Request{Codec: "copy"},
			want: []string{"-scodec", "copy"},
		},
		{
			name: "subtitle null",
			kind: types.StreamSubtitle,
			req:  Request{Codec: "null"},
			want: []string{"-sn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.kind, tt.req, nil)
			if err != nil {
				t.Fatalf("Compile() unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Compile() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestCompileDiagnostics(t *testing.T) {
	var c types.Collector
	_, err := Compile(types.StreamAudio, Request{Codec: "vorbis", Options: map[string]any{
		"channels": 2, "bitrate": 999, "codec": "vorbis", "samplerate": "high",
	}}, &c)
	if err != nil {
		t.Fatalf("Compile() unexpected error: %v", err)
	}

	dropped := map[string]bool{}
	for _, d := range c.Diagnostics() {
		if d.Kind != types.StreamAudio || d.Codec != "vorbis" {
			t.Errorf("diagnostic not stamped: %+v", d)
		}
		if d.Severity != types.SeverityDropped {
			t.Errorf("unexpected severity: %+v", d)
		}
		dropped[d.Option] = true
	}
	for _, opt := range []string{"bitrate", "codec", "samplerate"} {
		if !dropped[opt] {
			t.Errorf("no diagnostic for dropped %q", opt)
		}
	}
	if dropped["channels"] {
		t.Error("channels should be kept")
	}
}

func TestCompileUnknownPolicy(t *testing.T) {
	var c types.Collector
	got, err := Compile(types.StreamVideo, Request{Codec: "h264", Options: map[string]any{
		"src_width": 1280, "src_height": 720, "max_width": 640, "max_height": 640,
		"sizing_policy": "Zoom",
	}}, &c)
	if err != nil {
		t.Fatalf("Compile() unexpected error: %v", err)
	}

	want := []string{"-vcodec", "libx264", "-pix_fmt", "yuv420p", "-s", "1280x720", "-aspect", "1280:720"}
	if !slices.Equal(got, want) {
		t.Errorf("Compile() = %q, want %q", got, want)
	}

	warnings := c.Warnings()
	if len(warnings) != 1 || warnings[0].Option != "sizing_policy" || warnings[0].Codec != "h264" {
		t.Errorf("warnings = %+v", warnings)
	}
}

func TestCompileMalformedCropDropped(t *testing.T) {
	var c types.Collector
	got, err := Compile(types.StreamVideo, Request{Codec: "theora", Options: map[string]any{"crop": "100x100", "filters": "hflip"}}, &c)
	if err != nil {
		t.Fatalf("Compile() unexpected error: %v", err)
	}
	want := []string{"-vcodec", "libtheora", "-pix_fmt", "yuv420p", "-vf", "hflip"}
	if !slices.Equal(got, want) {
		t.Errorf("Compile() = %q, want %q", got, want)
	}
	d := c.Diagnostics()
	if len(d) != 1 || d[0].Option != "crop" {
		t.Errorf("diagnostics = %+v", d)
	}
}

func TestCompileOversizedSourceDropped(t *testing.T) {
	var c types.Collector
	got, err := Compile(types.StreamVideo, Request{Codec: "h264", Options: map[string]any{
		"src_width": math.MaxInt, "src_height": 1080, "max_width": 640, "max_height": 640,
		"sizing_policy": "Keep",
	}}, &c)
	if err != nil {
		t.Fatalf("Compile() unexpected error: %v", err)
	}

	want := []string{"-vcodec", "libx264", "-pix_fmt", "yuv420p", "-s", "640x640", "-aspect", "640:640"}
	if !slices.Equal(got, want) {
		t.Errorf("Compile() = %q, want %q", got, want)
	}

	d := c.Diagnostics()
	if len(d) != 1 || d[0].Option != "src_width" || d[0].Severity != types.SeverityDropped || d[0].Codec != "h264" {
		t.Errorf("diagnostics = %+v", d)
	}
}

func TestCodecMismatch(t *testing.T) {
	codec, err := Lookup(types.StreamVideo, "h264")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}

	var c types.Collector
	got, err := codec.Compile(Request{Codec: "vp8", Options: map[string]any{"bitrate": 9999, "bogus": 1}}, &c)
	if !errors.Is(err, ErrInvalidCodec) {
		t.Fatalf("Compile() error = %v, want ErrInvalidCodec", err)
	}
	if got != nil {
		t.Errorf("Compile() returned args on failure: %q", got)
	}
	if n := len(c.Diagnostics()); n != 0 {
		t.Errorf("options were processed before the codec check: %v", c.Diagnostics())
	}
}

func TestLookupUnknown(t *testing.T) {
	tests := []struct {
		kind types.StreamKind
		id   string
	}{
		{types.StreamAudio, "opus"},
		{types.StreamVideo, "vorbis"},
		{types.StreamSubtitle, "h264"},
	}

	for _, tt := range tests {
		_, err := Lookup(tt.kind, tt.id)
		if !errors.Is(err, ErrUnknownCodec) {
			t.Errorf("Lookup(%s, %q) error = %v, want ErrUnknownCodec", tt.kind, tt.id, err)
		}
		if _, err := Compile(tt.kind, Request{Codec: tt.id}, nil); !errors.Is(err, ErrUnknownCodec) {
			t.Errorf("Compile(%s, %q) error = %v, want ErrUnknownCodec", tt.kind, tt.id, err)
		}
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	req := Request{Codec: "nvenc_hevc", Options: map[string]any{
		"tier": "high", "preset": "hq", "rc": "vbr", "cq": "24", "surfaces": 8,
		"max_width": 1920, "max_height": 1080, "src_width": 3840, "src_height": 2160,
		"sizing_policy": "ShrinkToFit", "filters": "yadif",
	}}

	first, err := Compile(types.StreamVideo, req, nil)
	if err != nil {
		t.Fatalf("Compile() unexpected error: %v", err)
	}
	for range 20 {
		again, _ := Compile(types.StreamVideo, req, nil)
		if !slices.Equal(first, again) {
			t.Fatalf("Compile() not deterministic:\n%q\n%q", first, again)
		}
	}
}

func TestCompileNeverFailsOnBadOptions(t *testing.T) {
	junk := map[string]any{
		"channels": []int{1}, "bitrate": "x", "fps": -5, "max_width": 1e12,
		"crop": 42, "sizing_policy": 7, "autorotate": "maybe", "src_rotate": 45,
		"language": "english", "forced": 3, "preset": nil, "quality": map[string]int{},
		"cq": "high", "level": 2, "unknown": true,
	}

	for _, kind := range types.StreamKinds {
		for _, c := range Codecs(kind) {
			var sink types.Collector
			args, err := c.Compile(Request{Codec: c.ID, Options: junk}, &sink)
			if err != nil {
				t.Errorf("%s %s: unexpected error %v", kind, c.ID, err)
				continue
			}
			if len(args) == 0 {
				t.Errorf("%s %s: empty argument list", kind, c.ID)
			}
		}
	}
}

func TestCompileJob(t *testing.T) {
	job := Job{
		Audio:    &Request{Codec: "aac", Options: map[string]any{"bitrate": 192}},
		Video:    &Request{Codec: "copy"},
		Subtitle: &Request{Codec: "mov_text"},
	}

	res, err := CompileJob(job, nil)
	if err != nil {
		t.Fatalf("CompileJob() unexpected error: %v", err)
	}
	want := []string{
		"-acodec", "aac", "-ab", "192k", "-strict", "experimental",
		"-vcodec", "copy",
		"-scodec", "mov_text",
	}
	if got := res.Args(); !slices.Equal(got, want) {
		t.Errorf("Args() = %q, want %q", got, want)
	}

	_, err = CompileJob(Job{Audio: &Request{Codec: "aac"}, Video: &Request{Codec: "h265"}}, nil)
	if !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("CompileJob() error = %v, want ErrUnknownCodec", err)
	}
	var streamErr *StreamError
	if !errors.As(err, &streamErr) || streamErr.Kind != types.StreamVideo || streamErr.Codec != "h265" {
		t.Errorf("CompileJob() error = %#v, want video StreamError for h265", err)
	}
	if got := res.Stream(types.StreamAudio); !slices.Equal(got, res.Audio) {
		t.Errorf("Stream(audio) = %q, want %q", got, res.Audio)
	}

	empty, err := CompileJob(Job{}, nil)
	if err != nil || len(empty.Args()) != 0 {
		t.Errorf("empty job = %v, %v", empty, err)
	}
}
