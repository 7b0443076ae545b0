package cli

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate formats a timestamp for terminal display.
func FormatDate(t time.Time) string {
	return t.Format("02-Jan-2006 15:04")
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// TruncateString truncates a string to maxLen with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// HumanizeRisk turns a snake_case risk name into display text.
func HumanizeRisk(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
