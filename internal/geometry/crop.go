package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Crop dimensions outside this range are ignored when choosing the
// effective source size.
const (
	MinCropDimension = 16
	MaxCropDimension = 3000
)

// ParseCrop parses an ffmpeg crop expression of the form "W:H:X:Y" and
// returns its width and height. The offsets must be present but are not
// interpreted.
func ParseCrop(crop string) (width, height int, err error) {
	parts := strings.Split(crop, ":")
	if len(parts) != 4 {
		return 0, 0, fmt.Errorf("crop %q: want W:H:X:Y", crop)
	}
	width, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("crop %q width: %w", crop, err)
	}
	height, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("crop %q height: %w", crop, err)
	}
	return width, height, nil
}

// cropSource returns the crop size when both dimensions are usable as an
// effective source size.
func cropSource(crop string) (width, height int, ok bool) {
	if crop == "" {
		return 0, 0, false
	}
	w, h, err := ParseCrop(crop)
	if err != nil {
		return 0, 0, false
	}
	if !inCropRange(w) || !inCropRange(h) {
		return 0, 0, false
	}
	return w, h, true
}

func inCropRange(d int) bool {
	return d >= MinCropDimension && d <= MaxCropDimension
}
