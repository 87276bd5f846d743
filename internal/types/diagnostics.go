package types

import "sync"

// Severity grades a diagnostic produced while compiling a request.
type Severity string

const (
	// SeverityDropped marks an option that was silently omitted
	// (undeclared key, failed coercion, out of range).
	SeverityDropped Severity = "dropped"
	// SeverityWarning marks a value that was rejected and replaced, or a
	// setting that was ignored (unknown sizing policy).
	SeverityWarning Severity = "warning"
)

// Diagnostic is advisory output of the compiler. It never aborts a request.
type Diagnostic struct {
	Kind     StreamKind `json:"kind" doc:"Stream kind"`
	Codec    string     `json:"codec" doc:"Codec identifier"`
	Option   string     `json:"option,omitempty" doc:"Option name the diagnostic refers to"`
	Value    string     `json:"value,omitempty" doc:"Offending value as text"`
	Default  string     `json:"default,omitempty" doc:"Value substituted for the rejected one"`
	Severity Severity   `json:"severity" doc:"dropped or warning"`
	Message  string     `json:"message" doc:"Human readable description"`
}

// DiagnosticSink receives diagnostics emitted during compilation.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to DiagnosticSink.
type SinkFunc func(Diagnostic)

// Report implements DiagnosticSink.
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// NopSink discards all diagnostics.
var NopSink DiagnosticSink = SinkFunc(func(Diagnostic) {})

// MultiSink fans diagnostics out to several sinks in order.
type MultiSink []DiagnosticSink

// Report implements DiagnosticSink.
func (m MultiSink) Report(d Diagnostic) {
	for _, s := range m {
		if s != nil {
			s.Report(d)
		}
	}
}

// Collector records diagnostics in memory. Safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Report implements DiagnosticSink.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of everything collected so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Warnings returns only diagnostics with SeverityWarning.
func (c *Collector) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics() {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}
