package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/itinerary-processor/internal/grid"
	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// stores returns every implementation under test.
func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newTestStore(t),
	}
}

func sampleItinerary(t *testing.T) *itinerary.ItineraryData {
	t.Helper()
	res, err := itinerary.Process(grid.FromStrings([][]string{
		{"Title", "European Vacation"},
		{"Day", "City", "Date", "Time", "Category", "Description"},
		{"1", "Paris", "2025-05-01", "09:00", "Sightseeing", "Eiffel Tower visit"},
		{"1", "Paris", "2025-05-01", "12:30", "Food", "Lunch at Café"},
		{"2", "Rome", "2025-05-03", "09:30", "Sightseeing", "Colosseum"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	return res.Itinerary
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			it := sampleItinerary(t)
			id, err := s.Create(ctx, "alice", it)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if id == "" {
				t.Fatal("expected non-empty id")
			}

			rec, err := s.Get(ctx, id)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if rec.UserID != "alice" || rec.Title != "European Vacation" {
				t.Errorf("record = %+v", rec)
			}
			if rec.CreatedAt.IsZero() {
				t.Error("expected created_at")
			}

			day := rec.Itinerary.Days["1"]
			if day == nil || day.City != "Paris" || len(day.Items) != 2 {
				t.Fatalf("day 1 = %+v", day)
			}
			if got := day.AllMeals.List(); len(got) != 1 || got[0] != itinerary.MealLunch {
				t.Errorf("meals = %v", got)
			}
			if rec.Itinerary.ItemCount() != it.ItemCount() {
				t.Errorf("item count = %d, want %d", rec.Itinerary.ItemCount(), it.ItemCount())
			}
		})
	}
}

func TestCreateRequiresUser(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Create(ctx, "", sampleItinerary(t))
			if !errors.Is(err, ErrMissingUser) {
				t.Errorf("expected ErrMissingUser, got %v", err)
			}
			if _, err := s.Create(ctx, "alice", nil); err == nil {
				t.Error("expected error for nil itinerary")
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var ids []string
			for i := 0; i < 3; i++ {
				id, err := s.Create(ctx, "alice", sampleItinerary(t))
				if err != nil {
					t.Fatal(err)
				}
				ids = append(ids, id)
			}
			if _, err := s.Create(ctx, "bob", sampleItinerary(t)); err != nil {
				t.Fatal(err)
			}

			recs, err := s.List(ctx, "alice")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(recs) != 3 {
				t.Fatalf("expected 3 records, got %d", len(recs))
			}
			for i, rec := range recs {
				if rec.ID != ids[len(ids)-1-i] {
					t.Errorf("record %d = %s, want %s", i, rec.ID, ids[len(ids)-1-i])
				}
			}

			none, err := s.List(ctx, "carol")
			if err != nil || len(none) != 0 {
				t.Errorf("List(carol) = %v, %v", none, err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			id, err := s.Create(ctx, "alice", sampleItinerary(t))
			if err != nil {
				t.Fatal(err)
			}
			if err := s.Delete(ctx, id); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Errorf("get after delete: %v", err)
			}
			if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Errorf("second delete: %v", err)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	it := sampleItinerary(t)

	id, err := s.Create(ctx, "alice", it)
	if err != nil {
		t.Fatal(err)
	}
	it.Days["1"].City = "Lyon"

	rec, _ := s.Get(ctx, id)
	if rec.Itinerary.Days["1"].City != "Paris" {
		t.Error("stored itinerary changed with the caller's copy")
	}

	rec.Itinerary.Days["1"].Items[0].Description = "changed"
	again, _ := s.Get(ctx, id)
	if again.Itinerary.Days["1"].Items[0].Description != "Eiffel Tower visit" {
		t.Error("returned itinerary aliases the stored one")
	}
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemoryStore().Create(ctx, "alice", sampleItinerary(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "trips.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.Create(ctx, "alice", sampleItinerary(t))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	rec, err := reopened.Get(ctx, id)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if rec.Itinerary.Days["2"].City != "Rome" {
		t.Errorf("day 2 = %+v", rec.Itinerary.Days["2"])
	}
}

func TestOpen(t *testing.T) {
	s, err := Open("memory", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	s, err = Open("sqlite", filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("Open(sqlite) = %T", s)
	}
}
