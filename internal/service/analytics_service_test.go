package service

import (
	"testing"
	"time"
)

func TestParseDateRangeExplicit(t *testing.T) {
	start, end, err := parseDateRange("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("parseDateRange: %v", err)
	}
	if start.Format("2006-01-02") != "2026-01-01" {
		t.Errorf("start = %v", start)
	}
	// The end bound is inclusive of its whole day.
	if end.Day() != 31 || end.Hour() != 23 {
		t.Errorf("end should cover the whole last day, got %v", end)
	}
}

func TestParseDateRangeDefaults(t *testing.T) {
	start, end, err := parseDateRange("", "")
	if err != nil {
		t.Fatalf("parseDateRange: %v", err)
	}
	window := end.Sub(start)
	if window < 29*24*time.Hour || window > 31*24*time.Hour {
		t.Errorf("default window should be about 30 days, got %v", window)
	}
}

func TestParseDateRangeRejectsBadInput(t *testing.T) {
	if _, _, err := parseDateRange("01/02/2026", ""); err == nil {
		t.Error("expected error for non ISO date")
	}
	if _, _, err := parseDateRange("2026-03-01", "2026-02-01"); err == nil {
		t.Error("expected error for inverted range")
	}
}
