package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// maxInfoFields caps the detail lines printed under an INFO header.
const maxInfoFields = 8

// consoleTimeLayout is the header timestamp, rendered in local time.
const consoleTimeLayout = "2006-01-02 15:04:05"

// prettyHandler renders one header line per record followed by indented
// fields. Handlers derived through WithAttrs/WithGroup share the mutex so
// concurrent stages never interleave lines.
type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	var fields fieldSet
	for _, attr := range h.attrs {
		fields.add(h.groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		fields.add(h.groups, attr)
		return true
	})

	entry := consoleEntry{
		when:      record.Time,
		level:     record.Level,
		component: attrString(fields.take(FieldComponent)),
		stage:     strings.TrimSpace(attrString(fields.take(FieldStage))),
		message:   strings.TrimSpace(record.Message),
		fields:    fields.items,
	}
	if h.addSource {
		entry.source = record.Source()
	}

	var b strings.Builder
	entry.writeHeader(&b)
	if record.Level < slog.LevelInfo {
		entry.writeAllFields(&b)
	} else {
		entry.writeSummaryFields(&b)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

type consoleEntry struct {
	when      time.Time
	level     slog.Level
	component string
	stage     string
	message   string
	source    *slog.Source
	fields    []kv
}

func (e consoleEntry) writeHeader(b *strings.Builder) {
	when := e.when
	if when.IsZero() {
		when = time.Now()
	}
	b.WriteString(when.Local().Format(consoleTimeLayout))
	b.WriteString(" " + levelLabel(e.level))
	if e.component != "" {
		b.WriteString(" [" + e.component + "]")
	}
	if e.stage != "" {
		b.WriteString(" " + e.stage)
	}
	message := e.message
	if message == "" {
		message = "(no message)"
	}
	b.WriteString(" – " + message)
	if e.source != nil && e.source.File != "" {
		fmt.Fprintf(b, " [%s:%d]", filepath.Base(e.source.File), e.source.Line)
	}
	b.WriteByte('\n')
}

// writeSummaryFields prints titled fields, skipping bookkeeping keys and
// collapsing anything past maxInfoFields into a count.
func (e consoleEntry) writeSummaryFields(b *strings.Builder) {
	shown, hidden := 0, 0
	for _, field := range e.fields {
		if isDebugOnlyKey(field.key) || shown == maxInfoFields {
			hidden++
			continue
		}
		shown++
		fmt.Fprintf(b, "    - %s: %s\n", titleizeKey(field.key), formatValueForKey(field.key, field.value))
	}
	switch {
	case hidden == 1:
		b.WriteString("    + 1 more field hidden\n")
	case hidden > 1:
		fmt.Fprintf(b, "    + %d more fields hidden\n", hidden)
	}
}

func (e consoleEntry) writeAllFields(b *strings.Builder) {
	for _, field := range e.fields {
		fmt.Fprintf(b, "    %s: %s\n", field.key, formatValue(field.value))
	}
}

// isDebugOnlyKey reports whether a field is noise at INFO level.
func isDebugOnlyKey(key string) bool {
	switch key {
	case FieldCorrelationID, "args", "command":
		return true
	}
	return false
}

type kv struct {
	key   string
	value slog.Value
}

// fieldSet collects flattened attributes in first-seen order. A repeated key
// keeps its original position and takes the latest value.
type fieldSet struct {
	items []kv
	index map[string]int
}

func (s *fieldSet) add(prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		nested := prefix
		if attr.Key != "" {
			nested = append(append([]string(nil), prefix...), attr.Key)
		}
		for _, member := range value.Group() {
			s.add(nested, member)
		}
		return
	}
	if attr.Key == "" {
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if pos, ok := s.index[key]; ok {
		s.items[pos].value = value
		return
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, kv{key: key, value: value})
}

// take removes key from the set and returns its value.
func (s *fieldSet) take(key string) slog.Value {
	pos, ok := s.index[key]
	if !ok {
		return slog.Value{}
	}
	value := s.items[pos].value
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, key)
	for k, p := range s.index {
		if p > pos {
			s.index[k] = p - 1
		}
	}
	return value
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
