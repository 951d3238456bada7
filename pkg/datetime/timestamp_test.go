package datetime

import (
	"testing"
	"time"
)

func TestAuditTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "UTC input",
			input:    time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
			expected: "2025-03-14T09:30:00Z",
		},
		{
			name:     "offset input is converted to UTC",
			input:    time.Date(2025, 3, 14, 11, 30, 0, 0, time.FixedZone("CEST", 2*60*60)),
			expected: "2025-03-14T09:30:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuditTimestamp(tt.input); got != tt.expected {
				t.Errorf("AuditTimestamp() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestReportTimestamp(t *testing.T) {
	got := ReportTimestamp(time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC))
	if got != "2025-05-06 07:08:09 UTC" {
		t.Errorf("ReportTimestamp() = %q", got)
	}
}

func TestParseAuditTimestampRoundTrip(t *testing.T) {
	at := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	parsed, err := ParseAuditTimestamp(AuditTimestamp(at))
	if err != nil {
		t.Fatalf("ParseAuditTimestamp() error = %v", err)
	}
	if !parsed.Equal(at) {
		t.Errorf("expected %v, got %v", at, parsed)
	}

	if _, err := ParseAuditTimestamp("2024-12-31"); err == nil {
		t.Error("expected error for date without time")
	}
}

func TestMustParseTime(t *testing.T) {
	got := MustParseTime("2006-01-02", "2025-01-15")
	if got.Year() != 2025 || got.Month() != time.January || got.Day() != 15 {
		t.Errorf("MustParseTime() = %v", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for invalid date")
		}
	}()
	MustParseTime("2006-01-02", "not-a-date")
}
