package metrics

import (
	"sync"
	"time"
)

type commandStats struct {
	calls       int
	errors      int
	errorKinds  map[string]int
	lastLatency time.Duration
}

type sinkStats struct {
	published int
	failures  int
}

// Recorder captures lightweight, in-memory metrics about game commands and event delivery,
// mirroring them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu       sync.Mutex
	commands map[string]*commandStats
	sinks    map[string]*sinkStats
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		commands: make(map[string]*commandStats),
		sinks:    make(map[string]*sinkStats),
		otel:     otel,
	}
}

// RecordCommand counts one command execution. errKind is empty on success.
func (r *Recorder) RecordCommand(op string, duration time.Duration, errKind string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.commands[op]
	if !ok {
		stats = &commandStats{errorKinds: make(map[string]int)}
		r.commands[op] = stats
	}
	stats.calls++
	stats.lastLatency = duration
	if errKind != "" {
		stats.errors++
		stats.errorKinds[errKind]++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCommand(op, duration, errKind)
	}
}

// RecordEventPublished counts one delivery attempt of an event to a sink.
func (r *Recorder) RecordEventPublished(kind, sink string, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.sinks[sink]
	if !ok {
		stats = &sinkStats{}
		r.sinks[sink] = stats
	}
	if err != nil {
		stats.failures++
	} else {
		stats.published++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordEvent(kind, sink, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot returns a copy of the current stats for a command.
type Snapshot struct {
	Calls       int
	Errors      int
	ErrorKinds  map[string]int
	LastLatency time.Duration
}

func (r *Recorder) Snapshot(op string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.commands[op]
	if !ok {
		return Snapshot{}
	}
	kinds := make(map[string]int, len(stats.errorKinds))
	for k, v := range stats.errorKinds {
		kinds[k] = v
	}
	return Snapshot{
		Calls:       stats.calls,
		Errors:      stats.errors,
		ErrorKinds:  kinds,
		LastLatency: stats.lastLatency,
	}
}

// CommandCalls returns the total executions recorded for a command.
func (r *Recorder) CommandCalls(op string) int {
	return r.Snapshot(op).Calls
}

// CommandErrors returns the failed executions recorded for a command.
func (r *Recorder) CommandErrors(op string) int {
	return r.Snapshot(op).Errors
}

// EventsPublished returns successful and failed deliveries recorded for a sink.
func (r *Recorder) EventsPublished(sink string) (published, failures int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.sinks[sink]; ok {
		return stats.published, stats.failures
	}
	return 0, 0
}
