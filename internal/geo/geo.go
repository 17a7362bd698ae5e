// Package geo places itinerary cities on a map and estimates the distance
// between consecutive days. Coordinates come from a fixed table; there is no
// geocoding service and no routing, only great-circle distances.
package geo

import (
	"math"
	"strings"

	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Locator resolves a city name to coordinates.
type Locator interface {
	Locate(city string) (Point, bool)
}

// StaticLocator looks cities up in a fixed table, ignoring case and
// surrounding whitespace.
type StaticLocator struct {
	cities map[string]Point
}

// NewStaticLocator returns a locator over the built-in city table plus any
// extra entries, which take precedence.
func NewStaticLocator(extra map[string]Point) *StaticLocator {
	l := &StaticLocator{cities: make(map[string]Point, len(knownCities)+len(extra))}
	for name, p := range knownCities {
		l.cities[normalize(name)] = p
	}
	for name, p := range extra {
		l.cities[normalize(name)] = p
	}
	return l
}

func (l *StaticLocator) Locate(city string) (Point, bool) {
	p, ok := l.cities[normalize(city)]
	return p, ok
}

func normalize(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// Haversine returns the great-circle distance between a and b in km.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Leg is the estimated hop between two consecutive days.
type Leg struct {
	FromDay  string
	ToDay    string
	From     string
	To       string
	Distance float64
}

// Legs walks the days in display order and returns a leg for every pair of
// consecutive days in different cities. Days whose city cannot be located
// are skipped; the next located day continues from the last located one.
func Legs(it *itinerary.ItineraryData, locator Locator) []Leg {
	if it == nil {
		return nil
	}

	var legs []Leg
	var prev *itinerary.DayData
	var prevPoint Point

	for _, day := range it.OrderedDays() {
		p, ok := locator.Locate(day.City)
		if !ok {
			continue
		}
		if prev != nil && normalize(prev.City) != normalize(day.City) {
			legs = append(legs, Leg{
				FromDay:  prev.Day,
				ToDay:    day.Day,
				From:     prev.City,
				To:       day.City,
				Distance: Haversine(prevPoint, p),
			})
		}
		prev, prevPoint = day, p
	}
	return legs
}

// TotalDistance sums the distance of all legs in km.
func TotalDistance(legs []Leg) float64 {
	total := 0.0
	for _, l := range legs {
		total += l.Distance
	}
	return total
}

// knownCities is the built-in coordinate table.
var knownCities = map[string]Point{
	"Amsterdam":      {52.3676, 4.9041},
	"Athens":         {37.9838, 23.7275},
	"Bangkok":        {13.7563, 100.5018},
	"Barcelona":      {41.3874, 2.1686},
	"Berlin":         {52.5200, 13.4050},
	"Brussels":       {50.8503, 4.3517},
	"Budapest":       {47.4979, 19.0402},
	"Buenos Aires":   {-34.6037, -58.3816},
	"Cairo":          {30.0444, 31.2357},
	"Cape Town":      {-33.9249, 18.4241},
	"Copenhagen":     {55.6761, 12.5683},
	"Dubai":          {25.2048, 55.2708},
	"Dublin":         {53.3498, -6.2603},
	"Edinburgh":      {55.9533, -3.1883},
	"Florence":       {43.7696, 11.2558},
	"Hong Kong":      {22.3193, 114.1694},
	"Istanbul":       {41.0082, 28.9784},
	"Kyoto":          {35.0116, 135.7681},
	"Lisbon":         {38.7223, -9.1393},
	"London":         {51.5074, -0.1278},
	"Los Angeles":    {34.0522, -118.2437},
	"Madrid":         {40.4168, -3.7038},
	"Mexico City":    {19.4326, -99.1332},
	"Milan":          {45.4642, 9.1900},
	"Munich":         {48.1351, 11.5820},
	"Naples":         {40.8518, 14.2681},
	"New York":       {40.7128, -74.0060},
	"Nice":           {43.7102, 7.2620},
	"Oslo":           {59.9139, 10.7522},
	"Paris":          {48.8566, 2.3522},
	"Prague":         {50.0755, 14.4378},
	"Reykjavik":      {64.1466, -21.9426},
	"Rio de Janeiro": {-22.9068, -43.1729},
	"Rome":           {41.9028, 12.4964},
	"San Francisco":  {37.7749, -122.4194},
	"Seoul":          {37.5665, 126.9780},
	"Singapore":      {1.3521, 103.8198},
	"Stockholm":      {59.3293, 18.0686},
	"Sydney":         {-33.8688, 151.2093},
	"Tokyo":          {35.6762, 139.6503},
	"Toronto":        {43.6532, -79.3832},
	"Venice":         {45.4408, 12.3155},
	"Vienna":         {48.2082, 16.3738},
	"Zurich":         {47.3769, 8.5417},
}
