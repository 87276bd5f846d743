package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/smazurov/avconv/internal/api/models"
	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/events"
	"github.com/smazurov/avconv/internal/profiles"
	"github.com/smazurov/avconv/internal/types"
)

func newTestServer(t *testing.T, opts *Options) (*Server, humatest.TestAPI) {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}
	s := NewServer(opts)
	return s, humatest.Wrap(t, s.API())
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %T: %v\nbody: %s", out, err, resp.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	_, api := newTestServer(t, nil)
	resp := api.Get("/api/health")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
	if got := decode[models.HealthData](t, resp); got.Status != "ok" {
		t.Errorf("status = %q, want ok", got.Status)
	}
}

func TestCodecRoutes(t *testing.T) {
	_, api := newTestServer(t, nil)

	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantCount int
	}{
		{"all", "/api/codecs", http.StatusOK, 30},
		{"audio", "/api/codecs/audio", http.StatusOK, 10},
		{"video shorthand", "/api/codecs/v", http.StatusOK, 13},
		{"subtitle", "/api/codecs/subtitle", http.StatusOK, 7},
		{"bad kind", "/api/codecs/data", http.StatusUnprocessableEntity, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Get(tt.path)
			if resp.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", resp.Code, tt.wantCode, resp.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			got := decode[models.CodecsData](t, resp)
			if got.Count != tt.wantCount || len(got.Codecs) != tt.wantCount {
				t.Errorf("count = %d (%d codecs), want %d", got.Count, len(got.Codecs), tt.wantCount)
			}
		})
	}
}

func TestGetCodec(t *testing.T) {
	_, api := newTestServer(t, nil)

	resp := api.Get("/api/codecs/video/h264")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	info := decode[encoders.CodecInfo](t, resp)
	if info.Encoder != "libx264" {
		t.Errorf("encoder = %q, want libx264", info.Encoder)
	}
	var quality *encoders.OptionInfo
	for i := range info.Options {
		if info.Options[i].Name == "quality" {
			quality = &info.Options[i]
		}
	}
	if quality == nil || quality.Flag != "-crf" {
		t.Errorf("quality option = %+v, want flag -crf", quality)
	}

	if resp := api.Get("/api/codecs/audio/h264"); resp.Code != http.StatusNotFound {
		t.Errorf("unknown codec status = %d, want 404", resp.Code)
	}
}

func TestCompile(t *testing.T) {
	bus := events.New()
	_, api := newTestServer(t, &Options{EventBus: bus})

	compiled := make(chan events.CompiledEvent, 4)
	unsub := bus.Subscribe(func(e events.CompiledEvent) { compiled <- e })
	defer unsub()

	resp := api.Post("/api/compile", map[string]any{
		"audio": map[string]any{"codec": "aac", "options": map[string]any{"bitrate": 128, "channels": 99}},
		"video": map[string]any{"codec": "h264", "options": map[string]any{"quality": 99, "bogus": true}},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}

	got := decode[models.CompileData](t, resp)
	wantAudio := []string{"-acodec", "aac", "-ab", "128k", "-strict", "experimental"}
	if !slices.Equal(got.Audio, wantAudio) {
		t.Errorf("audio = %q, want %q", got.Audio, wantAudio)
	}
	wantVideo := []string{"-vcodec", "libx264", "-pix_fmt", "yuv420p", "-crf", "23"}
	if !slices.Equal(got.Video, wantVideo) {
		t.Errorf("video = %q, want %q", got.Video, wantVideo)
	}
	if want := append(slices.Clone(wantAudio), wantVideo...); !slices.Equal(got.Args, want) {
		t.Errorf("args = %q, want %q", got.Args, want)
	}

	options := map[string]bool{}
	for _, d := range got.Diagnostics {
		options[d.Option] = true
	}
	for _, want := range []string{"channels", "quality", "bogus"} {
		if !options[want] {
			t.Errorf("missing diagnostic for %q in %+v", want, got.Diagnostics)
		}
	}

	seen := map[types.StreamKind]bool{}
	for range 2 {
		select {
		case e := <-compiled:
			if e.Result != "ok" {
				t.Errorf("event = %+v, want ok", e)
			}
			seen[e.Kind] = true
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for compiled event")
		}
	}
	if !seen[types.StreamAudio] || !seen[types.StreamVideo] {
		t.Errorf("events for %v, want audio and video", seen)
	}
}

func TestCompileUnknownCodec(t *testing.T) {
	_, api := newTestServer(t, nil)
	resp := api.Post("/api/compile", map[string]any{
		"video": map[string]any{"codec": "cinepak"},
	})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422: %s", resp.Code, resp.Body.String())
	}
}

func TestProfileRoutes(t *testing.T) {
	reg := profiles.NewRegistry(encoders.Default())
	if err := reg.Replace(map[string]profiles.Profile{
		"web": {
			Format: "mp4",
			Video: &encoders.Request{Codec: "h264", Options: map[string]any{
				"max_width": 640, "max_height": 640, "sizing_policy": "fill",
			}},
		},
	}); err != nil {
		t.Fatal(err)
	}
	_, api := newTestServer(t, &Options{Profiles: reg})

	list := decode[models.ProfilesData](t, api.Get("/api/profiles"))
	if list.Count != 1 || list.Profiles[0].Name != "web" {
		t.Errorf("profiles = %+v", list)
	}

	if resp := api.Get("/api/profiles/missing"); resp.Code != http.StatusNotFound {
		t.Errorf("missing profile status = %d, want 404", resp.Code)
	}

	resp := api.Post("/api/profiles/web/command", map[string]any{
		"input":  "in.mkv",
		"output": "out.mp4",
		"source": map[string]any{"width": 1920, "height": 1080},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	got := decode[models.ProfileCommandData](t, resp)
	want := []string{
		"ffmpeg", "-hide_banner", "-i", "in.mkv",
		"-vcodec", "libx264", "-pix_fmt", "yuv420p", "-s", "1138x640", "-aspect", "1138:640",
		"-vf", "crop=640:640:248:0",
		"-f", "mp4", "-y", "out.mp4",
	}
	if !slices.Equal(got.Argv, want) {
		t.Errorf("argv =\n%q\nwant\n%q", got.Argv, want)
	}
	if !strings.HasPrefix(got.CommandLine, "ffmpeg -hide_banner") {
		t.Errorf("command line = %q", got.CommandLine)
	}
}

func TestBasicAuth(t *testing.T) {
	_, api := newTestServer(t, &Options{AuthUsername: "admin", AuthPassword: "secret"})
	good := "Authorization: Basic " + base64.StdEncoding.EncodeToString([]byte("admin:secret"))
	bad := "Authorization: Basic " + base64.StdEncoding.EncodeToString([]byte("admin:wrong"))

	tests := []struct {
		name string
		path string
		args []any
		want int
	}{
		{"health is public", "/api/health", nil, http.StatusOK},
		{"missing credentials", "/api/codecs", nil, http.StatusUnauthorized},
		{"wrong password", "/api/codecs", []any{bad}, http.StatusUnauthorized},
		{"valid header", "/api/codecs", []any{good}, http.StatusOK},
		{"query fallback", "/api/codecs?auth=" + base64.StdEncoding.EncodeToString([]byte("admin:secret")), nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if resp := api.Get(tt.path, tt.args...); resp.Code != tt.want {
				t.Errorf("status = %d, want %d", resp.Code, tt.want)
			}
		})
	}
}

func TestLogsAndStats(t *testing.T) {
	_, api := newTestServer(t, nil)
	api.Post("/api/compile", map[string]any{"audio": map[string]any{"codec": "vorbis", "options": map[string]any{"quality": 42}}})

	if resp := api.Get("/api/logs?limit=5&level=warn"); resp.Code != http.StatusOK {
		t.Errorf("logs status = %d: %s", resp.Code, resp.Body.String())
	}

	stats := decode[models.StatsData](t, api.Get("/api/stats"))
	found := false
	for _, s := range stats.Codecs {
		if s.Kind == types.StreamAudio && s.Codec == "vorbis" && s.Requests > 0 && s.Diagnostics > 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("stats missing vorbis entry: %+v", stats.Codecs)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, &Options{Metrics: true})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/compile", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestProfileWriteRoutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.toml")
	bus := events.New()
	reloaded := make(chan events.ProfilesReloadedEvent, 4)
	unsub := bus.Subscribe(func(e events.ProfilesReloadedEvent) { reloaded <- e })
	defer unsub()

	reg := profiles.NewRegistry(encoders.Default())
	_, api := newTestServer(t, &Options{
		Profiles:     reg,
		ProfileStore: profiles.NewStore(path),
		EventBus:     bus,
	})

	resp := api.Put("/api/profiles/small", map[string]any{
		"format": "webm",
		"video":  map[string]any{"codec": "vp8", "options": map[string]any{"max_width": 320}},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", resp.Code, resp.Body.String())
	}
	if p, err := reg.Get("small"); err != nil || p.Format != "webm" {
		t.Errorf("registry profile = %+v, %v", p, err)
	}
	loaded, err := profiles.LoadFile(path)
	if err != nil || loaded["small"].Video == nil {
		t.Errorf("stored profiles = %+v, %v", loaded, err)
	}

	select {
	case e := <-reloaded:
		if e.Path != path || !slices.Equal(e.Profiles, []string{"small"}) {
			t.Errorf("reload event = %+v", e)
		}
	case <-time.After(time.Second):
		t.Error("no reload event")
	}

	resp = api.Put("/api/profiles/bad", map[string]any{"audio": map[string]any{"codec": "h264"}})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid profile status = %d, want 422", resp.Code)
	}

	if resp := api.Delete("/api/profiles/small"); resp.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204: %s", resp.Code, resp.Body.String())
	}
	if _, err := reg.Get("small"); err == nil {
		t.Error("profile still installed after delete")
	}
	if resp := api.Delete("/api/profiles/small"); resp.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.Code)
	}
}

func TestProfileWriteRoutesNeedStore(t *testing.T) {
	_, api := newTestServer(t, nil)
	resp := api.Put("/api/profiles/x", map[string]any{"format": "mp4"})
	if resp.Code != http.StatusNotFound && resp.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 404 or 405 without a store", resp.Code)
	}
}

func TestRequestID(t *testing.T) {
	_, api := newTestServer(t, nil)

	resp := api.Get("/api/health")
	generated := resp.Header().Get(RequestIDHeader)
	if len(generated) != 36 {
		t.Errorf("generated request id = %q", generated)
	}

	const id = "0b8a4b6e-8f5c-4c35-9df4-2b8f1d0c7a11"
	resp = api.Get("/api/health", RequestIDHeader+": "+id)
	if got := resp.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want client id %q", got, id)
	}

	resp = api.Get("/api/health", RequestIDHeader+": not-a-uuid")
	if got := resp.Header().Get(RequestIDHeader); got == "not-a-uuid" || got == "" {
		t.Errorf("request id = %q, want a fresh id", got)
	}
}
