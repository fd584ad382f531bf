// Package timeutil provides business-calendar window math.
// This is part of the platform layer and contains no business logic.
//
// A business day does not roll over at midnight but at a fixed cutover hour
// (04:00 by default): activity between midnight and the cutover belongs to
// the previous calendar day. Business months roll over at the cutover hour
// of the first of the month.
package timeutil

import "time"

// DefaultCutoverHour is the hour of day at which a new business day begins.
const DefaultCutoverHour = 4

// BusinessDayStart returns the start of the business day containing t.
func BusinessDayStart(t time.Time, cutoverHour int) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), cutoverHour, 0, 0, 0, t.Location())
	if t.Before(day) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// BusinessDayEnd returns the exclusive end of the business day containing t.
func BusinessDayEnd(t time.Time, cutoverHour int) time.Time {
	return BusinessDayStart(t, cutoverHour).AddDate(0, 0, 1)
}

// BusinessDayWindow returns the [start, end) window of the business day containing t.
func BusinessDayWindow(t time.Time, cutoverHour int) (time.Time, time.Time) {
	start := BusinessDayStart(t, cutoverHour)
	return start, start.AddDate(0, 0, 1)
}

// SameBusinessDay reports whether a and b fall in the same business day.
func SameBusinessDay(a, b time.Time, cutoverHour int) bool {
	return BusinessDayStart(a, cutoverHour).Equal(BusinessDayStart(b.In(a.Location()), cutoverHour))
}

// BusinessMonthStart returns the start of the business month containing t.
func BusinessMonthStart(t time.Time, cutoverHour int) time.Time {
	month := time.Date(t.Year(), t.Month(), 1, cutoverHour, 0, 0, 0, t.Location())
	if t.Before(month) {
		month = month.AddDate(0, -1, 0)
	}
	return month
}

// BusinessMonthWindow returns the [start, end) window of the business month containing t.
func BusinessMonthWindow(t time.Time, cutoverHour int) (time.Time, time.Time) {
	start := BusinessMonthStart(t, cutoverHour)
	return start, start.AddDate(0, 1, 0)
}
