package itinerary

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// SortedDayKeys orders day keys for display. The day map itself has no
// order, so consumers that care call this.
//
// Keys are compared by their parsed day number first ("1", "Day 2", "3b"),
// and keys without a number sort after numbered ones. Ties fall back to
// plain string comparison so the result is deterministic.
func SortedDayKeys(days map[string]*DayData) []string {
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		ni, okI := DayNumber(keys[i])
		nj, okJ := DayNumber(keys[j])
		switch {
		case okI && okJ && ni != nj:
			return ni < nj
		case okI != okJ:
			return okI
		default:
			return keys[i] < keys[j]
		}
	})

	return keys
}

// DayNumber extracts the first run of digits in a day key.
func DayNumber(key string) (int, bool) {
	start := strings.IndexFunc(key, unicode.IsDigit)
	if start < 0 {
		return 0, false
	}

	end := start
	for end < len(key) && key[end] >= '0' && key[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(key[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
