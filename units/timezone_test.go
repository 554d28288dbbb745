package units

import (
	"errors"
	"strings"
	"testing"
)

func TestConvertTime(t *testing.T) {
	// 12:00 UTC is 13:00 in Paris during winter (UTC+1).
	got, err := ConvertTime("2026-01-15T12:00:00", "UTC", "Europe/Paris")
	if err != nil {
		t.Fatalf("ConvertTime: %v", err)
	}
	if got != "2026-01-15T13:00:00+01:00" {
		t.Errorf("ConvertTime = %q, want 2026-01-15T13:00:00+01:00", got)
	}
}

func TestConvertTime_AcrossDateLine(t *testing.T) {
	got, err := ConvertTime("2026-06-01T23:30:00", "America/New_York", "Asia/Tokyo")
	if err != nil {
		t.Fatalf("ConvertTime: %v", err)
	}
	// New York EDT (UTC-4) 23:30 → 03:30 UTC next day → 12:30 JST.
	if !strings.HasPrefix(got, "2026-06-02T12:30:00") {
		t.Errorf("ConvertTime = %q, want 2026-06-02T12:30:00+09:00", got)
	}
}

func TestConvertTime_DateOnly(t *testing.T) {
	got, err := ConvertTime("2026-03-01", "UTC", "UTC")
	if err != nil {
		t.Fatalf("ConvertTime: %v", err)
	}
	if !strings.HasPrefix(got, "2026-03-01T00:00:00") {
		t.Errorf("ConvertTime = %q", got)
	}
}

func TestConvertTime_Errors(t *testing.T) {
	if _, err := ConvertTime("not-a-time", "UTC", "UTC"); !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("bad timestamp: got %v", err)
	}
	if _, err := ConvertTime("2026-01-01T00:00:00", "Mars/Olympus", "UTC"); !errors.Is(err, ErrUnknownTimezone) {
		t.Errorf("bad source zone: got %v", err)
	}
	if _, err := ConvertTime("2026-01-01T00:00:00", "UTC", "Mars/Olympus"); !errors.Is(err, ErrUnknownTimezone) {
		t.Errorf("bad target zone: got %v", err)
	}
}
