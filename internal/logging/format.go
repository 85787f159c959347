package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

func attrString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprint(v.Any())
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuotes(s) {
			return strconv.Quote(s)
		}
		return s
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return attrString(v)
	}
}

// formatValueForKey renders a value for INFO output, using the key suffix to
// pick a friendlier unit.
func formatValueForKey(key string, v slog.Value) string {
	switch {
	case strings.HasSuffix(key, "_bytes"):
		switch v.Kind() {
		case slog.KindInt64:
			if n := v.Int64(); n >= 0 {
				return humanize.Bytes(uint64(n))
			}
		case slog.KindUint64:
			return humanize.Bytes(v.Uint64())
		}
	case v.Kind() == slog.KindDuration:
		d := v.Duration()
		if d >= time.Second {
			return d.Round(100 * time.Millisecond).String()
		}
		return d.Round(time.Millisecond).String()
	case strings.HasSuffix(key, "_chars") || strings.HasSuffix(key, "_count"):
		if v.Kind() == slog.KindInt64 {
			return humanize.Comma(v.Int64())
		}
	}
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return formatValue(v)
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\n\"=")
}

// titleizeKey turns snake_case keys into display labels ("source_url" → "Source URL").
func titleizeKey(key string) string {
	if idx := strings.LastIndex(key, "."); idx >= 0 {
		key = key[idx+1:]
	}
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	for i, part := range parts {
		switch strings.ToLower(part) {
		case "url", "id", "http", "iso":
			parts[i] = strings.ToUpper(part)
		default:
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
