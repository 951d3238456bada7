// Package datetime provides date and time utility functions.
package datetime

import (
	"time"
)

const (
	// AuditLayout is the timestamp format written to the audit log.
	AuditLayout = time.RFC3339

	// ReportLayout is the timestamp format shown in exported reports.
	ReportLayout = "2006-01-02 15:04:05 MST"
)

// AuditTimestamp formats t in UTC for the audit log.
func AuditTimestamp(t time.Time) string {
	return t.UTC().Format(AuditLayout)
}

// ReportTimestamp formats t in UTC for report headers.
func ReportTimestamp(t time.Time) string {
	return t.UTC().Format(ReportLayout)
}

// ParseAuditTimestamp parses a timestamp written by AuditTimestamp.
func ParseAuditTimestamp(value string) (time.Time, error) {
	return time.Parse(AuditLayout, value)
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}
