// =============================================================================
// Itinerary Processor - Formatter Set
// =============================================================================
//
// Pure display helpers used by the exporters and the CLI. None of them fail:
// bad input degrades to a best-effort string.
//
//   FormatMeals   : meal set   -> "Lunch & Dinner" / "No meals detected"
//   FormatTime    : raw timing -> trimmed value / "Time"
//   FormatDate    : raw date   -> "Thu, May 1, 2025" / cleaned raw value
//   CategoryIcon  : category   -> icon identifier
//
// =============================================================================

package format

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// NoMeals is shown for a day without detected meals.
const NoMeals = "No meals detected"

// TimePlaceholder is shown for an item without a timing.
const TimePlaceholder = "Time"

// DisplayDateLayout renders dates as "Thu, May 1, 2025".
const DisplayDateLayout = "Mon, Jan 2, 2006"

// =============================================================================
// MEALS AND TIMES
// =============================================================================

// FormatMeals capitalizes each meal and joins them with " & ", keeping the
// given order. Callers pass MealSet.List(), which is detection order.
func FormatMeals(meals []string) string {
	if len(meals) == 0 {
		return NoMeals
	}

	parts := make([]string, len(meals))
	for i, m := range meals {
		parts[i] = capitalize(m)
	}
	return strings.Join(parts, " & ")
}

// capitalize upper-cases the first rune.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FormatTime returns the trimmed timing, or the placeholder when blank.
// No timezone or format conversion is applied.
func FormatTime(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TimePlaceholder
	}
	return trimmed
}

// =============================================================================
// DATES
// =============================================================================

// dateLayouts are tried in order when parsing a string date.
//
// The list covers ISO dates, spreadsheet exports (US slash dates, month
// names) and the long form browsers produce when a date object is turned
// into text ("Thu May 01 2025 00:00:00 GMT+0200 (Central European Summer Time)").
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	time.RFC1123,
	time.RFC1123Z,
	"Mon Jan 02 2006",
	"Mon Jan 02 2006 15:04:05",
}

// FormatDateValue renders a native date.
func FormatDateValue(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// FormatDate renders a date string as "Mon, Jan 2, 2006" when it can be
// parsed. Otherwise it returns the raw value with any trailing "GMT..." part
// removed and surrounding whitespace trimmed.
func FormatDate(raw string) string {
	if t, ok := ParseDate(raw); ok {
		return FormatDateValue(t)
	}
	return cleanDate(raw)
}

// ParseDate tries every known layout against the trimmed value. Values in the
// browser long form are parsed after their "GMT..." suffix is removed.
func ParseDate(raw string) (time.Time, bool) {
	candidates := []string{strings.TrimSpace(raw)}
	if cleaned := cleanDate(raw); cleaned != candidates[0] {
		candidates = append(candidates, cleaned)
	}

	for _, value := range candidates {
		if value == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// cleanDate strips a "GMT..." suffix and surrounding whitespace.
func cleanDate(raw string) string {
	if idx := strings.Index(raw, "GMT"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

// =============================================================================
// CATEGORY ICONS
// =============================================================================

// Icon identifies the symbol a renderer shows next to an item.
type Icon string

const (
	IconSightseeing    Icon = "camera"
	IconFood           Icon = "utensils"
	IconTransportation Icon = "car"
	IconAccommodation  Icon = "hotel"
	IconActivity       Icon = "activity"

	// IconDefault is used for any category not in the table.
	IconDefault Icon = "map-pin"
)

// categoryIcons is the fixed category table, keyed in lower case.
var categoryIcons = map[string]Icon{
	"sightseeing":    IconSightseeing,
	"food":           IconFood,
	"transportation": IconTransportation,
	"accommodation":  IconAccommodation,
	"activity":       IconActivity,
}

// CategoryIcon looks up a category case-insensitively. Unknown or blank
// categories return IconDefault.
func CategoryIcon(category string) Icon {
	if icon, ok := categoryIcons[strings.ToLower(strings.TrimSpace(category))]; ok {
		return icon
	}
	return IconDefault
}
