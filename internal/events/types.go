package events

import "github.com/smazurov/avconv/internal/types"

// Event type constants for kelindar/event.
const (
	TypeDiagnostic uint32 = iota + 1
	TypeCompiled
	TypeProfilesReloaded
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// DiagnosticEvent carries one compiler diagnostic.
type DiagnosticEvent struct {
	types.Diagnostic
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DiagnosticEvent.
func (e DiagnosticEvent) Type() uint32 { return TypeDiagnostic }

// CompiledEvent is published after one stream request has been compiled.
type CompiledEvent struct {
	RequestID string           `json:"request_id,omitempty" doc:"Id of the API request"`
	Kind      types.StreamKind `json:"kind" example:"video" doc:"Stream kind"`
	Codec     string           `json:"codec" example:"h264" doc:"Codec identifier"`
	Profile   string           `json:"profile,omitempty" example:"web" doc:"Profile name when compiled from a profile"`
	Result    string           `json:"result" example:"ok" doc:"ok or error"`
	Args      []string         `json:"args,omitempty" doc:"Compiled arguments"`
	Error     string           `json:"error,omitempty" doc:"Failure description"`
	Timestamp string           `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CompiledEvent.
func (e CompiledEvent) Type() uint32 { return TypeCompiled }

// ProfilesReloadedEvent is published when the profiles file was reloaded.
type ProfilesReloadedEvent struct {
	Path      string   `json:"path" example:"profiles.toml" doc:"Profiles file"`
	Profiles  []string `json:"profiles" doc:"Profile names after the reload"`
	Timestamp string   `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ProfilesReloadedEvent.
func (e ProfilesReloadedEvent) Type() uint32 { return TypeProfilesReloaded }
