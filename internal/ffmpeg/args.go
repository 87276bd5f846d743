package ffmpeg

import (
	"slices"
	"strings"
)

// Filter-chain flags. Each may appear at most once in an argument list.
const (
	AudioFilterFlag = "-af"
	VideoFilterFlag = "-vf"
)

// Args is an ordered ffmpeg argument list. Tokens are only ever appended;
// filter chains are extended in place rather than duplicated.
type Args struct {
	tokens []string
}

// NewArgs returns an argument list starting with tokens.
func NewArgs(tokens ...string) *Args {
	return &Args{tokens: slices.Clone(tokens)}
}

// Append adds tokens to the end of the list.
func (a *Args) Append(tokens ...string) {
	a.tokens = append(a.tokens, tokens...)
}

// Flag appends flag and value when value is non-empty.
func (a *Args) Flag(flag, value string) {
	if value == "" {
		return
	}
	a.tokens = append(a.tokens, flag, value)
}

// ExtendFilter adds fragment to the chain held by flag (-af or -vf).
// The first fragment creates the flag; later ones are joined with a comma.
// Empty fragments are ignored.
func (a *Args) ExtendFilter(flag, fragment string) {
	if fragment == "" {
		return
	}
	if i := slices.Index(a.tokens, flag); i >= 0 && i+1 < len(a.tokens) {
		a.tokens[i+1] = a.tokens[i+1] + "," + fragment
		return
	}
	a.tokens = append(a.tokens, flag, fragment)
}

// Filter returns the current chain held by flag.
func (a *Args) Filter(flag string) string {
	if i := slices.Index(a.tokens, flag); i >= 0 && i+1 < len(a.tokens) {
		return a.tokens[i+1]
	}
	return ""
}

// Len returns the number of tokens.
func (a *Args) Len() int { return len(a.tokens) }

// Strings returns a copy of the tokens.
func (a *Args) Strings() []string {
	out := slices.Clone(a.tokens)
	if out == nil {
		out = []string{}
	}
	return out
}

func (a *Args) String() string {
	return strings.Join(a.tokens, " ")
}
