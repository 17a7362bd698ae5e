package geo

import (
	"math"
	"testing"

	"github.com/ginjaninja78/itinerary-processor/internal/grid"
	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
)

func TestHaversine(t *testing.T) {
	loc := NewStaticLocator(nil)
	paris, _ := loc.Locate("Paris")
	rome, _ := loc.Locate("Rome")

	d := Haversine(paris, rome)
	if d < 1100 || d > 1110 {
		t.Errorf("Paris-Rome = %.1f km, want about 1105", d)
	}
	if Haversine(paris, paris) != 0 {
		t.Error("distance to self should be 0")
	}
	if math.Abs(Haversine(paris, rome)-Haversine(rome, paris)) > 1e-9 {
		t.Error("distance should be symmetric")
	}
}

func TestStaticLocator(t *testing.T) {
	loc := NewStaticLocator(map[string]Point{"Hobbiton": {-37.8721, 175.6829}})

	tests := []struct {
		city string
		ok   bool
	}{
		{"paris", true},
		{"  ROME ", true},
		{"Hobbiton", true},
		{"Atlantis", false},
		{"", false},
	}
	for _, tt := range tests {
		if _, ok := loc.Locate(tt.city); ok != tt.ok {
			t.Errorf("Locate(%q) ok = %v, want %v", tt.city, ok, tt.ok)
		}
	}
}

func TestLegs(t *testing.T) {
	res, err := itinerary.Process(grid.FromStrings([][]string{
		{"Title", "Grand Tour"},
		{"Day", "City"},
		{"3", "Rome", "", "", "", "Vatican"},
		{"1", "Paris", "", "", "", "Louvre"},
		{"2", "Atlantis", "", "", "", "Diving"},
		{"4", "Rome", "", "", "", "Forum"},
		{"5", "Florence", "", "", "", "Uffizi"},
	}))
	if err != nil {
		t.Fatal(err)
	}

	legs := Legs(res.Itinerary, NewStaticLocator(nil))
	if len(legs) != 2 {
		t.Fatalf("legs = %+v", legs)
	}
	if legs[0].FromDay != "1" || legs[0].ToDay != "3" || legs[0].From != "Paris" || legs[0].To != "Rome" {
		t.Errorf("first leg = %+v", legs[0])
	}
	if legs[1].FromDay != "4" || legs[1].To != "Florence" {
		t.Errorf("second leg = %+v", legs[1])
	}
	if TotalDistance(legs) <= legs[0].Distance {
		t.Error("total should include both legs")
	}
}

func TestLegsNil(t *testing.T) {
	if legs := Legs(nil, NewStaticLocator(nil)); legs != nil {
		t.Errorf("Legs(nil) = %v", legs)
	}
}
