package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Entry is one captured log record with its attributes flattened to
// "group.key" → value strings.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// Recorder is a slog.Handler that keeps records in memory so tests can
// assert on what a render pass reported.
//
//	rec := logging.NewRecorder(slog.LevelWarn)
//	b := presskit.NewBuilder(presskit.WithLogger(slog.New(rec)))
//	...
//	if len(rec.Entries()) != 1 { ... }
type Recorder struct {
	min    slog.Level
	store  *entryStore
	attrs  []slog.Attr
	groups []string
}

type entryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder returns a Recorder keeping records at or above min.
func NewRecorder(min slog.Level) *Recorder {
	return &Recorder{min: min, store: &entryStore{}}
}

// Enabled implements slog.Handler.
func (r *Recorder) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.min
}

// Handle implements slog.Handler.
func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	e := Entry{
		Level:   rec.Level,
		Message: rec.Message,
		Attrs:   make(map[string]string, len(r.attrs)+rec.NumAttrs()),
	}
	for _, a := range r.attrs {
		e.Attrs[a.Key] = a.Value.String()
	}
	prefix := ""
	if len(r.groups) > 0 {
		prefix = strings.Join(r.groups, ".") + "."
	}
	rec.Attrs(func(a slog.Attr) bool {
		e.Attrs[prefix+a.Key] = a.Value.String()
		return true
	})

	r.store.mu.Lock()
	r.store.entries = append(r.store.entries, e)
	r.store.mu.Unlock()
	return nil
}

// WithAttrs implements slog.Handler.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := ""
	if len(r.groups) > 0 {
		prefix = strings.Join(r.groups, ".") + "."
	}
	next := *r
	next.attrs = append([]slog.Attr(nil), r.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}
	return &next
}

// WithGroup implements slog.Handler.
func (r *Recorder) WithGroup(name string) slog.Handler {
	if name == "" {
		return r
	}
	next := *r
	next.groups = append(append([]string(nil), r.groups...), name)
	return &next
}

// Entries returns a copy of the captured records in arrival order.
func (r *Recorder) Entries() []Entry {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]Entry(nil), r.store.entries...)
}

// Messages returns the message of every captured record.
func (r *Recorder) Messages() []string {
	entries := r.Entries()
	msgs := make([]string, len(entries))
	for i, e := range entries {
		msgs[i] = e.Message
	}
	return msgs
}

// Reset drops all captured records.
func (r *Recorder) Reset() {
	r.store.mu.Lock()
	r.store.entries = nil
	r.store.mu.Unlock()
}
