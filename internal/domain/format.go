package domain

import (
	"fmt"
	"strings"
)

const (
	truncateAt    = 75
	plainMaxLen   = 80
	jsonMaxLen    = 100
	jsonEllipsis  = "... (JSON)"
	plainEllipsis = "..."
)

// FormatValue turns a raw audit value into its display string. Nil values
// render as the empty string; anything else is stringified first. Long
// JSON-shaped values (leading '[' or '{', longer than 100 characters) are cut
// to 75 characters with a "... (JSON)" marker, other long values (over 80)
// to 75 characters with "...". Short strings pass through unchanged, so
// formatting an already-formatted short value is a no-op.
func FormatValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case *string:
		if s == nil {
			return ""
		}
		return truncateForDisplay(*s)
	case string:
		return truncateForDisplay(s)
	default:
		return truncateForDisplay(fmt.Sprint(v))
	}
}

func truncateForDisplay(s string) string {
	structured := strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")
	if structured && len(s) > jsonMaxLen {
		return s[:truncateAt] + jsonEllipsis
	}
	if len(s) > plainMaxLen {
		return s[:truncateAt] + plainEllipsis
	}
	return s
}

// DisplayFieldName renders a snake_case column name for humans
func DisplayFieldName(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
