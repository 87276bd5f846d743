package encoders

import (
	"github.com/smazurov/avconv/internal/options"
	"github.com/smazurov/avconv/internal/types"
)

// OptionInfo describes one declared option of a codec.
type OptionInfo struct {
	Name    string       `json:"name" doc:"Option name"`
	Type    options.Type `json:"type" doc:"Declared value type" enum:"string,integer,float,boolean"`
	Flag    string       `json:"flag,omitempty" doc:"ffmpeg flag emitted for codec-specific options"`
	Domain  string       `json:"domain,omitempty" doc:"Accepted values"`
	Default string       `json:"default,omitempty" doc:"Value substituted for invalid input"`
}

// CodecInfo is a serialisable description of a codec.
type CodecInfo struct {
	ID          string           `json:"id" doc:"Codec identifier used in requests"`
	Encoder     string           `json:"encoder,omitempty" doc:"ffmpeg encoder name"`
	Kind        types.StreamKind `json:"kind" doc:"Stream kind"`
	Description string           `json:"description" doc:"Human readable name"`
	Options     []OptionInfo     `json:"options" doc:"Declared options"`
}

// Info describes c and its declared options in name order.
func (c *Codec) Info() CodecInfo {
	info := CodecInfo{
		ID:          c.ID,
		Encoder:     c.Encoder,
		Kind:        c.Kind,
		Description: c.Description,
		Options:     make([]OptionInfo, 0, len(c.Schema)),
	}
	for _, name := range c.Schema.Names() {
		o := OptionInfo{Name: name, Type: c.Schema[name]}
		if c.rules != nil {
			if r, ok := c.rules.Lookup(name); ok {
				o.Flag = r.Flag
				o.Domain = r.Domain
				o.Default = r.Default
			}
		}
		info.Options = append(info.Options, o)
	}
	return info
}
