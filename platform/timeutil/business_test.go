package timeutil

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestBusinessDayStartAfterCutover(t *testing.T) {
	got := BusinessDayStart(date(2026, time.March, 10, 9, 30), 4)
	want := date(2026, time.March, 10, 4, 0)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBusinessDayStartBeforeCutoverBelongsToPreviousDay(t *testing.T) {
	got := BusinessDayStart(date(2026, time.March, 10, 2, 15), 4)
	want := date(2026, time.March, 9, 4, 0)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBusinessDayStartExactlyAtCutover(t *testing.T) {
	got := BusinessDayStart(date(2026, time.March, 10, 4, 0), 4)
	want := date(2026, time.March, 10, 4, 0)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBusinessDayWindowSpans24Hours(t *testing.T) {
	start, end := BusinessDayWindow(date(2026, time.March, 10, 23, 0), 4)
	if got := end.Sub(start); got != 24*time.Hour {
		t.Fatalf("expected 24h window, got %v", got)
	}
	if !start.Equal(date(2026, time.March, 10, 4, 0)) {
		t.Fatalf("unexpected window start %v", start)
	}
}

func TestSameBusinessDayAcrossMidnight(t *testing.T) {
	evening := date(2026, time.March, 10, 23, 50)
	smallHours := date(2026, time.March, 11, 1, 10)
	if !SameBusinessDay(evening, smallHours, 4) {
		t.Fatalf("expected 23:50 and next-day 01:10 to share a business day")
	}

	afterCutover := date(2026, time.March, 11, 5, 0)
	if SameBusinessDay(evening, afterCutover, 4) {
		t.Fatalf("expected next-day 05:00 to start a new business day")
	}
}

func TestBusinessMonthStartBeforeCutoverOnFirst(t *testing.T) {
	got := BusinessMonthStart(date(2026, time.April, 1, 1, 0), 4)
	want := date(2026, time.March, 1, 4, 0)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBusinessMonthWindow(t *testing.T) {
	start, end := BusinessMonthWindow(date(2026, time.February, 15, 12, 0), 4)
	if !start.Equal(date(2026, time.February, 1, 4, 0)) {
		t.Fatalf("unexpected month start %v", start)
	}
	if !end.Equal(date(2026, time.March, 1, 4, 0)) {
		t.Fatalf("unexpected month end %v", end)
	}
}
