package types

import "fmt"

// StreamKind identifies which stream of the output an encoding request targets.
type StreamKind string

const (
	StreamAudio    StreamKind = "audio"
	StreamVideo    StreamKind = "video"
	StreamSubtitle StreamKind = "subtitle"
)

// StreamKinds lists every kind in argument emission order.
var StreamKinds = []StreamKind{StreamAudio, StreamVideo, StreamSubtitle}

// ParseStreamKind converts a user supplied kind name. Single letter
// shorthands as used by ffmpeg stream specifiers (a, v, s) are accepted.
func ParseStreamKind(s string) (StreamKind, error) {
	switch s {
	case "audio", "a":
		return StreamAudio, nil
	case "video", "v":
		return StreamVideo, nil
	case "subtitle", "subtitles", "s":
		return StreamSubtitle, nil
	default:
		return "", fmt.Errorf("unknown stream kind %q", s)
	}
}

// Letter returns the ffmpeg stream letter (a, v, s).
func (k StreamKind) Letter() string {
	switch k {
	case StreamAudio:
		return "a"
	case StreamVideo:
		return "v"
	case StreamSubtitle:
		return "s"
	default:
		return ""
	}
}
