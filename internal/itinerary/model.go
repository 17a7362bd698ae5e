// =============================================================================
// Itinerary Processor - Itinerary Model
// =============================================================================
//
// This file defines the aggregate produced by one processing call:
//
//   ItineraryData
//   └── Days (map keyed by the opaque day key)
//       └── DayData
//           ├── City / Date   (first row seen for the key wins)
//           ├── Items         (row order)
//           └── AllMeals      (insertion-ordered, deduplicated)
//
// The aggregate is built once from an immutable grid and handed to consumers
// (store, exporters, CLI) as a read-only snapshot.
//
// =============================================================================

package itinerary

import (
	"encoding/json"
)

// DefaultTitle is used when the grid has no title cell.
const DefaultTitle = "Travel Itinerary"

// =============================================================================
// ITEM
// =============================================================================

// Item is a single timed activity within a day.
type Item struct {
	// Timing is the trimmed raw time cell, e.g. "09:00". Not validated here.
	Timing string `json:"timing"`

	// Category is the raw category cell, e.g. "Sightseeing".
	Category string `json:"category"`

	// Description is the raw description cell.
	Description string `json:"description"`
}

// =============================================================================
// DAY
// =============================================================================

// DayData groups every item sharing a day key.
type DayData struct {
	// Day is the grouping key. It is opaque: not necessarily numeric or ordered.
	Day string `json:"day"`

	// City and Date come from the first row seen for this key.
	City string `json:"city"`
	Date string `json:"date"`

	// Items in insertion (row) order.
	Items []Item `json:"items"`

	// AllMeals is the union of DetectMeals over Items, in detection order.
	AllMeals MealSet `json:"allMeals"`
}

// newDay creates an empty bucket for a day key.
func newDay(day, city, date string) *DayData {
	return &DayData{
		Day:   day,
		City:  city,
		Date:  date,
		Items: []Item{},
	}
}

// addItem appends an item and folds its meals into AllMeals.
// Keeping both updates in one place is what keeps AllMeals equal to the
// union over Items.
func (d *DayData) addItem(item Item) {
	d.Items = append(d.Items, item)
	for _, meal := range DetectMeals(item.Category, item.Description) {
		d.AllMeals.Add(meal)
	}
}

// Duration returns the human readable span of the day's logged times.
func (d *DayData) Duration() string {
	return CalculateDuration(d.Items)
}

// =============================================================================
// ITINERARY
// =============================================================================

// ItineraryData is the complete aggregate for one processed grid.
type ItineraryData struct {
	Title string              `json:"title"`
	Days  map[string]*DayData `json:"days"`
}

// ItemCount returns the total number of items across all days.
func (it *ItineraryData) ItemCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Items)
	}
	return n
}

// Clone returns a deep copy that shares no slices or maps with it.
func (it *ItineraryData) Clone() *ItineraryData {
	if it == nil {
		return nil
	}
	out := &ItineraryData{Title: it.Title, Days: make(map[string]*DayData, len(it.Days))}
	for k, d := range it.Days {
		cp := *d
		cp.Items = append([]Item{}, d.Items...)
		cp.AllMeals = NewMealSet(d.AllMeals.List()...)
		out.Days[k] = &cp
	}
	return out
}

// OrderedDays returns the days sorted by SortedDayKeys.
func (it *ItineraryData) OrderedDays() []*DayData {
	keys := SortedDayKeys(it.Days)
	out := make([]*DayData, 0, len(keys))
	for _, k := range keys {
		out = append(out, it.Days[k])
	}
	return out
}

// =============================================================================
// MEAL SET
// =============================================================================

// MealSet is an insertion-ordered set of meal keywords.
// The zero value is an empty set ready to use.
type MealSet struct {
	meals []string
}

// NewMealSet returns a set holding the given meals, deduplicated, in order.
func NewMealSet(meals ...string) MealSet {
	var s MealSet
	for _, m := range meals {
		s.Add(m)
	}
	return s
}

// Add inserts a meal and reports whether it was new.
func (s *MealSet) Add(meal string) bool {
	if s.Has(meal) {
		return false
	}
	s.meals = append(s.meals, meal)
	return true
}

// Has reports whether the meal is in the set.
func (s MealSet) Has(meal string) bool {
	for _, m := range s.meals {
		if m == meal {
			return true
		}
	}
	return false
}

// Len returns the number of meals.
func (s MealSet) Len() int {
	return len(s.meals)
}

// List returns a copy of the meals in insertion order.
func (s MealSet) List() []string {
	out := make([]string, len(s.meals))
	copy(out, s.meals)
	return out
}

// MarshalJSON encodes the set as a JSON array in insertion order.
func (s MealSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// UnmarshalJSON decodes a JSON array, dropping duplicates.
func (s *MealSet) UnmarshalJSON(data []byte) error {
	var meals []string
	if err := json.Unmarshal(data, &meals); err != nil {
		return err
	}
	*s = NewMealSet(meals...)
	return nil
}
