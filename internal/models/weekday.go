package models

import (
	"strings"
	"time"
)

// WeekdayMask encodes a weekly recurrence pattern as seven bits,
// bit 0 = Monday through bit 6 = Sunday. The integer form is what the
// wire and the contracts table carry; all bit arithmetic lives here.
type WeekdayMask int

// mondayFirst orders time.Weekday values the way schedules are displayed.
var mondayFirst = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func bitFor(day time.Weekday) int {
	// time.Weekday has Sunday = 0; shift so Monday occupies bit 0.
	return (int(day) + 6) % 7
}

// MaskOf builds a WeekdayMask from the given weekdays.
func MaskOf(days ...time.Weekday) WeekdayMask {
	var m WeekdayMask
	for _, d := range days {
		m |= 1 << bitFor(d)
	}
	return m
}

// Contains reports whether the mask includes the given weekday.
func (m WeekdayMask) Contains(day time.Weekday) bool {
	return m&(1<<bitFor(day)) != 0
}

// IsZero reports whether no weekday bit is set.
func (m WeekdayMask) IsZero() bool {
	return m&0x7F == 0
}

// Count returns the number of weekdays set.
func (m WeekdayMask) Count() int {
	n := 0
	for _, day := range mondayFirst {
		if m.Contains(day) {
			n++
		}
	}
	return n
}

// Weekdays returns the set weekdays in Monday-first order.
func (m WeekdayMask) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for _, day := range mondayFirst {
		if m.Contains(day) {
			days = append(days, day)
		}
	}
	return days
}

// Format renders the mask as a Monday-first comma-separated list of
// weekday abbreviations, e.g. "Mon, Wed, Fri".
func (m WeekdayMask) Format() string {
	abbrs := make([]string, 0, 7)
	for _, day := range m.Weekdays() {
		abbrs = append(abbrs, day.String()[:3])
	}
	return strings.Join(abbrs, ", ")
}
