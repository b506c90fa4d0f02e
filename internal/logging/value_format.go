package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// maxListItems caps how many ids of a product id list appear on a console
// line. The JSON handler always logs the full list.
const maxListItems = 8

// attrString renders v without quoting, for header fields.
func attrString(v slog.Value) string {
	return renderValue(v, false)
}

// formatValue renders v for a field line, quoting strings that would be
// ambiguous next to other fields.
func formatValue(v slog.Value) string {
	return renderValue(v, true)
}

func renderValue(v slog.Value, quote bool) string {
	v = v.Resolve()
	var s string
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return formatDuration(v.Duration())
	case slog.KindTime:
		return formatTimestamp(v.Time())
	case slog.KindString:
		s = v.String()
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			s = x.Error()
		case []string:
			return formatList(x)
		default:
			s = fmt.Sprint(x)
		}
	default:
		s = v.String()
	}
	if quote && needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

// formatList renders product id and column lists as "a, b, c (+N more)".
func formatList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	shown := items
	if len(shown) > maxListItems {
		shown = shown[:maxListItems]
	}
	parts := make([]string, len(shown))
	for i, item := range shown {
		if needsQuotes(item) {
			item = strconv.Quote(item)
		}
		parts[i] = item
	}
	out := strings.Join(parts, ", ")
	if extra := len(items) - len(shown); extra > 0 {
		out += " (+" + strconv.Itoa(extra) + " more)"
	}
	return out
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r < ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return strings.TrimSpace(s) != s
}
