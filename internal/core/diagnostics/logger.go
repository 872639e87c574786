// Package diagnostics records a per-operation, timestamped event log used to
// diagnose adapter health. One Logger is created per scan run or adapter test.
package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelDebug Level = "debug"
)

// Entry is one recorded event.
type Entry struct {
	Timestamp time.Time   `json:"timestamp"`
	ElapsedMs int64       `json:"elapsed"`
	Context   string      `json:"context"`
	Level     Level       `json:"level"`
	Message   string      `json:"message"`
	Data      port.Fields `json:"data,omitempty"`
}

// Summary aggregates everything logged so far.
type Summary struct {
	Context         string        `json:"context"`
	TotalDurationMs int64         `json:"totalDuration"`
	LogCounts       map[Level]int `json:"logCounts"`
	HasErrors       bool          `json:"hasErrors"`
	Logs            []Entry       `json:"logs"`
}

// Logger is safe for concurrent use.
type Logger struct {
	context string
	mirror  port.LoggerPort
	now     func() time.Time
	start   time.Time

	mu      sync.Mutex
	entries []Entry
}

// New creates a logger for one unit of work. Every entry is also written to
// mirror when it is not nil.
func New(context string, mirror port.LoggerPort) *Logger {
	return newWithClock(context, mirror, time.Now)
}

func newWithClock(context string, mirror port.LoggerPort, now func() time.Time) *Logger {
	if mirror != nil {
		mirror = mirror.WithFields(port.Fields{"diagnostics_context": context})
	}
	return &Logger{
		context: context,
		mirror:  mirror,
		now:     now,
		start:   now(),
	}
}

// Context returns the name given at construction.
func (l *Logger) Context() string {
	return l.context
}

// Log appends an entry and returns a copy of it.
func (l *Logger) Log(level Level, message string, data port.Fields) Entry {
	ts := l.now()
	entry := Entry{
		Timestamp: ts.UTC(),
		ElapsedMs: ts.Sub(l.start).Milliseconds(),
		Context:   l.context,
		Level:     level,
		Message:   message,
		Data:      copyFields(data),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	l.forward(entry)
	return entry
}

func (l *Logger) Info(message string, data port.Fields) Entry {
	return l.Log(LevelInfo, message, data)
}

func (l *Logger) Warn(message string, data port.Fields) Entry {
	return l.Log(LevelWarn, message, data)
}

func (l *Logger) Debug(message string, data port.Fields) Entry {
	return l.Log(LevelDebug, message, data)
}

// Error records err under the "error" key of data.
func (l *Logger) Error(message string, err error, data port.Fields) Entry {
	data = copyFields(data)
	if err != nil {
		if data == nil {
			data = port.Fields{}
		}
		data["error"] = err.Error()
	}
	return l.Log(LevelError, message, data)
}

// StartTimer logs the start of label and returns a stop function that logs
// the elapsed duration at debug level. Stop may be called on any path,
// including after errors; each call records a new entry.
func (l *Logger) StartTimer(label string) func() time.Duration {
	started := l.now()
	l.Debug("Timer started: "+label, nil)

	return func() time.Duration {
		d := l.now().Sub(started)
		l.Debug("Timer ended: "+label, port.Fields{"duration_ms": d.Milliseconds()})
		return d
	}
}

// Summary can be taken at any point, not only at the end.
func (l *Logger) Summary() Summary {
	l.mu.Lock()
	logs := make([]Entry, len(l.entries))
	copy(logs, l.entries)
	l.mu.Unlock()

	counts := map[Level]int{LevelInfo: 0, LevelWarn: 0, LevelError: 0, LevelDebug: 0}
	for _, e := range logs {
		counts[e.Level]++
	}

	return Summary{
		Context:         l.context,
		TotalDurationMs: l.now().Sub(l.start).Milliseconds(),
		LogCounts:       counts,
		HasErrors:       counts[LevelError] > 0,
		Logs:            logs,
	}
}

// Persist stores the summary as a debug-log record. Failures are logged and
// swallowed so the calling operation is never affected.
func (l *Logger) Persist(ctx context.Context, store port.DebugLogStore, scanRunID *uuid.UUID) {
	if store == nil {
		return
	}
	summary := l.Summary()

	level := string(LevelInfo)
	if summary.HasErrors {
		level = string(LevelError)
	}

	data, err := json.Marshal(summary)
	if err != nil {
		l.mirrorError("Failed to marshal diagnostics summary", err)
		return
	}

	record := domain.DebugLogRecord{
		ID:        uuid.New(),
		ScanRunID: scanRunID,
		Context:   l.context,
		Level:     level,
		Message:   fmt.Sprintf("Scan %s completed", l.context),
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.SaveDebugLog(ctx, record); err != nil {
		l.mirrorError("Failed to persist diagnostics summary", err)
	}
}

func (l *Logger) mirrorError(msg string, err error) {
	if l.mirror != nil {
		l.mirror.Error(msg, err, nil)
	}
}

func (l *Logger) forward(e Entry) {
	if l.mirror == nil {
		return
	}
	fields := port.Fields{"elapsed_ms": e.ElapsedMs}
	for k, v := range e.Data {
		fields[k] = v
	}
	switch e.Level {
	case LevelError:
		l.mirror.Error(e.Message, nil, fields)
	case LevelWarn:
		l.mirror.Warn(e.Message, fields)
	case LevelInfo:
		l.mirror.Info(e.Message, fields)
	default:
		l.mirror.Debug(e.Message, fields)
	}
}

func copyFields(in port.Fields) port.Fields {
	if in == nil {
		return nil
	}
	out := make(port.Fields, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type ctxKey struct{}

// WithLogger attaches l to ctx so adapters can record into it.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx. Without one it returns a
// detached logger whose entries nobody reads.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
		return l
	}
	return New("detached", nil)
}
