package itinerary

import (
	"strings"

	"github.com/ginjaninja78/itinerary-processor/internal/grid"
)

// GroupDays folds filtered rows into per-day buckets keyed by the day cell.
//
// GROUPING LOGIC:
//   - The first row seen for a key creates the bucket and fixes City and Date.
//     Later rows with the same key never overwrite them.
//   - Every row appends one Item; item order within a day is row order.
//   - Meals are accumulated inline as each item is added.
//
// The returned map is freshly allocated for each call.
func GroupDays(rows []IndexedRow) map[string]*DayData {
	days := make(map[string]*DayData)

	for _, r := range rows {
		key := r.Row.At(ColDay).String()

		day, exists := days[key]
		if !exists {
			day = newDay(key, r.Row.At(ColCity).String(), r.Row.At(ColDate).String())
			days[key] = day
		}

		day.addItem(itemFromRow(r.Row))
	}

	return days
}

// itemFromRow builds an Item. Only the timing is trimmed; category and
// description are kept as written.
func itemFromRow(row grid.Row) Item {
	return Item{
		Timing:      strings.TrimSpace(row.At(ColTiming).String()),
		Category:    row.At(ColCategory).String(),
		Description: row.At(ColDescription).String(),
	}
}
