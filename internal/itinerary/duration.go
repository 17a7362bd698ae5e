package itinerary

import (
	"fmt"
	"regexp"
	"strconv"
)

const minutesPerDay = 24 * 60

// timingPattern accepts H:MM and HH:MM.
var timingPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// TimingWarning describes an item timing the duration calculator ignored.
type TimingWarning struct {
	// Item is the index of the item within the day.
	Item int

	// Timing is the rejected raw value.
	Timing string

	// Reason explains the rejection.
	Reason string
}

// ParseTiming converts "H:MM" or "HH:MM" to minutes since midnight.
// It returns an explanation when the value is malformed or out of range.
func ParseTiming(timing string) (int, error) {
	m := timingPattern.FindStringSubmatch(timing)
	if m == nil {
		return 0, fmt.Errorf("timing %q does not match H:MM or HH:MM", timing)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("timing %q is out of range", timing)
	}

	return hour*60 + minute, nil
}

// CalculateDuration returns the span between the earliest and latest valid
// item timings as a display string: "0 hours", "8 hours", "7.5 hours" or
// "Full day". Malformed timings are skipped.
func CalculateDuration(items []Item) string {
	duration, _ := AnalyzeDuration(items)
	return duration
}

// AnalyzeDuration is CalculateDuration plus the list of skipped timings.
//
// The span is max - min over the valid times. When the last valid time in
// item order is earlier than the first, the day may run past midnight: times
// before the first one are moved to the next day and the shorter of the two
// spans wins (23:00 then 01:00 is 2 hours, 09:00, 12:00, 08:00 is 4 hours).
func AnalyzeDuration(items []Item) (string, []TimingWarning) {
	if len(items) == 0 {
		return "0 hours", nil
	}

	var warnings []TimingWarning
	var times []int

	for i, item := range items {
		minutes, err := ParseTiming(item.Timing)
		if err != nil {
			warnings = append(warnings, TimingWarning{Item: i, Timing: item.Timing, Reason: err.Error()})
			continue
		}
		times = append(times, minutes)
	}

	if len(times) == 0 {
		return "0 hours", warnings
	}

	span := spanOf(times, 0)
	first, last := times[0], times[len(times)-1]
	if last < first {
		if overnight := spanOf(times, first); overnight < span {
			span = overnight
		}
	}

	return formatSpan(span), warnings
}

// spanOf returns max - min after moving every time earlier than rollover to
// the next day. A rollover of 0 leaves all times in place.
func spanOf(times []int, rollover int) int {
	lo, hi := -1, -1
	for _, t := range times {
		if t < rollover {
			t += minutesPerDay
		}
		if lo < 0 || t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	return hi - lo
}

// formatSpan renders a span in minutes.
func formatSpan(minutes int) string {
	if minutes >= minutesPerDay {
		return "Full day"
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%d hours", minutes/60)
	}
	return strconv.FormatFloat(float64(minutes)/60, 'f', 1, 64) + " hours"
}
