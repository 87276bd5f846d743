// Package metrics provides Prometheus metrics for codec compilation.
package metrics

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smazurov/avconv/internal/types"
)

// Compile results used as the result label.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	compileRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "avconv",
		Subsystem: "compile",
		Name:      "requests_total",
		Help:      "Stream encoding requests compiled, by result",
	}, []string{"kind", "codec", "result"})

	compileDiagnostics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "avconv",
		Subsystem: "compile",
		Name:      "diagnostics_total",
		Help:      "Options dropped or substituted during compilation",
	}, []string{"kind", "codec", "option"})

	// Local cache for the stats endpoint.
	statsCache   = make(map[statsKey]*CodecStats)
	statsCacheMu sync.RWMutex
)

type statsKey struct {
	kind  types.StreamKind
	codec string
}

// CodecStats holds running totals for one codec.
type CodecStats struct {
	Kind        types.StreamKind `json:"kind" doc:"Stream kind"`
	Codec       string           `json:"codec" doc:"Codec identifier"`
	Requests    uint64           `json:"requests" doc:"Compiled requests"`
	Errors      uint64           `json:"errors" doc:"Requests rejected with an error"`
	Diagnostics uint64           `json:"diagnostics" doc:"Diagnostics reported"`
}

// RecordCompile counts one compiled request.
func RecordCompile(kind types.StreamKind, codec string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	compileRequests.WithLabelValues(string(kind), codec, result).Inc()
	updateStats(kind, codec, func(s *CodecStats) {
		s.Requests++
		if err != nil {
			s.Errors++
		}
	})
}

// RecordDiagnostic counts one diagnostic.
func RecordDiagnostic(d types.Diagnostic) {
	compileDiagnostics.WithLabelValues(string(d.Kind), d.Codec, d.Option).Inc()
	updateStats(d.Kind, d.Codec, func(s *CodecStats) { s.Diagnostics++ })
}

// DiagnosticSink returns a sink feeding RecordDiagnostic.
func DiagnosticSink() types.DiagnosticSink {
	return types.SinkFunc(RecordDiagnostic)
}

// GetCodecStats returns the totals for one codec, or nil if none were recorded.
func GetCodecStats(kind types.StreamKind, codec string) *CodecStats {
	statsCacheMu.RLock()
	defer statsCacheMu.RUnlock()
	if s, ok := statsCache[statsKey{kind, codec}]; ok {
		dup := *s
		return &dup
	}
	return nil
}

// GetAllCodecStats returns totals for every codec seen, ordered by kind then codec.
func GetAllCodecStats() []CodecStats {
	statsCacheMu.RLock()
	out := make([]CodecStats, 0, len(statsCache))
	for _, s := range statsCache {
		out = append(out, *s)
	}
	statsCacheMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Codec < out[j].Codec
	})
	return out
}

// ResetCodecStats clears the cache and the labelled series for one codec.
func ResetCodecStats(kind types.StreamKind, codec string) {
	for _, result := range []string{ResultOK, ResultError} {
		compileRequests.DeleteLabelValues(string(kind), codec, result)
	}
	compileDiagnostics.DeletePartialMatch(prometheus.Labels{"kind": string(kind), "codec": codec})

	statsCacheMu.Lock()
	delete(statsCache, statsKey{kind, codec})
	statsCacheMu.Unlock()
}

func updateStats(kind types.StreamKind, codec string, update func(*CodecStats)) {
	statsCacheMu.Lock()
	defer statsCacheMu.Unlock()
	key := statsKey{kind, codec}
	s, ok := statsCache[key]
	if !ok {
		s = &CodecStats{Kind: kind, Codec: codec}
		statsCache[key] = s
	}
	update(s)
}
