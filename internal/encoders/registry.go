package encoders

import (
	"fmt"
	"slices"

	"github.com/smazurov/avconv/internal/encoders/validation"
	"github.com/smazurov/avconv/internal/options"
	"github.com/smazurov/avconv/internal/types"
)

// Registry indexes codecs by stream kind and id. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	order map[types.StreamKind][]*Codec
	byID  map[types.StreamKind]map[string]*Codec
}

var defaultRegistry = newDefaultRegistry()

// Default returns the built-in codec registry.
func Default() *Registry { return defaultRegistry }

// Lookup returns the codec registered under id for kind.
func (r *Registry) Lookup(kind types.StreamKind, id string) (*Codec, error) {
	if c, ok := r.byID[kind][id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s codec %q", ErrUnknownCodec, kind, id)
}

// Codecs returns the codecs of kind in registration order.
func (r *Registry) Codecs(kind types.StreamKind) []*Codec {
	return slices.Clone(r.order[kind])
}

// Lookup finds a codec in the default registry.
func Lookup(kind types.StreamKind, id string) (*Codec, error) {
	return defaultRegistry.Lookup(kind, id)
}

// Codecs lists codecs of kind from the default registry.
func Codecs(kind types.StreamKind) []*Codec {
	return defaultRegistry.Codecs(kind)
}

func newRegistry(codecs ...*Codec) *Registry {
	r := &Registry{
		order: make(map[types.StreamKind][]*Codec),
		byID:  make(map[types.StreamKind]map[string]*Codec),
	}
	for _, c := range codecs {
		if r.byID[c.Kind] == nil {
			r.byID[c.Kind] = make(map[string]*Codec)
		}
		if _, dup := r.byID[c.Kind][c.ID]; dup {
			panic(fmt.Sprintf("encoders: duplicate %s codec %q", c.Kind, c.ID))
		}
		r.byID[c.Kind][c.ID] = c
		r.order[c.Kind] = append(r.order[c.Kind], c)
	}
	return r
}

func newDefaultRegistry() *Registry {
	rules := validation.DefaultRegistry()

	audio := func(id, encoder, desc string) *Codec {
		return withRules(&Codec{ID: id, Encoder: encoder, Kind: types.StreamAudio, Description: desc, Schema: audioBase}, rules)
	}
	video := func(id, encoder, desc string) *Codec {
		return withRules(&Codec{ID: id, Encoder: encoder, Kind: types.StreamVideo, Description: desc, Schema: videoBase}, rules)
	}
	subtitle := func(id, encoder, desc string) *Codec {
		return withRules(&Codec{ID: id, Encoder: encoder, Kind: types.StreamSubtitle, Description: desc, Schema: subtitleBase}, rules)
	}

	aac := audio("aac", "aac", "AAC (native encoder)")
	aac.extra = func(options.Options, types.DiagnosticSink) []string {
		return []string{"-strict", "experimental"}
	}

	mpeg1 := video("mpeg1", "mpeg1video", "MPEG-1 video")
	mpeg1.prepare = mpegAspect
	mpeg2 := video("mpeg2", "mpeg2video", "MPEG-2 video")
	mpeg2.prepare = mpegAspect

	return newRegistry(
		nullCodec(types.StreamAudio, "No audio"),
		copyCodec(types.StreamAudio, "Copy audio from the source"),
		audio("vorbis", "libvorbis", "Vorbis"),
		aac,
		audio("mp3", "libmp3lame", "MP3 (MPEG layer 3)"),
		audio("mp2", "mp2", "MP2 (MPEG layer 2)"),
		audio("libfdk_aac", "libfdk_aac", "AAC (Fraunhofer FDK)"),
		audio("ac3", "ac3", "Dolby Digital AC-3"),
		audio("dts", "dts", "DTS"),
		audio("flac", "flac", "FLAC lossless"),

		nullCodec(types.StreamVideo, "No video"),
		copyCodec(types.StreamVideo, "Copy video from the source"),
		video("theora", "libtheora", "Theora"),
		video("h264", "libx264", "H.264/AVC (x264)"),
		video("divx", "mpeg4", "DivX / MPEG-4 part 2"),
		video("vp8", "libvpx", "Google VP8"),
		video("h263", "h263", "H.263"),
		video("flv", "flv", "Flash video"),
		video("ffv1", "ffv1", "FFV1 lossless"),
		mpeg1,
		mpeg2,
		video("nvenc_hevc", "hevc_nvenc", "HEVC on NVIDIA NVENC"),
		video("nvenc_h264", "h264_nvenc", "H.264/AVC on NVIDIA NVENC"),

		nullCodec(types.StreamSubtitle, "No subtitles"),
		copyCodec(types.StreamSubtitle, "Copy subtitles from the source"),
		subtitle("mov_text", "mov_text", "MP4 timed text"),
		subtitle("ass", "ass", "SubStation Alpha"),
		subtitle("subrip", "subrip", "SubRip"),
		subtitle("dvdsub", "dvdsub", "DVD bitmap subtitles"),
		subtitle("dvbsub", "dvbsub", "DVB bitmap subtitles"),
	)
}

// withRules attaches the encoder's rule set and extends the schema with
// its options.
func withRules(c *Codec, rules *validation.ValidatorRegistry) *Codec {
	if rs, ok := rules.Rules(c.Encoder); ok {
		c.rules = &rs
		c.Schema = c.Schema.Extend(rs.Schema())
	}
	return c
}

func nullCodec(kind types.StreamKind, desc string) *Codec {
	return &Codec{ID: "null", Kind: kind, Description: desc, Schema: options.Schema{}, mode: modeNull}
}

func copyCodec(kind types.StreamKind, desc string) *Codec {
	return &Codec{ID: "copy", Encoder: "copy", Kind: kind, Description: desc, Schema: options.Schema{}, mode: modeCopy}
}
