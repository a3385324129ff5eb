package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "data", "wrecks.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestStoreRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	year := 1850
	lives := 3
	lat, lon := 44.5, -82.1
	records := []model.WreckRecord{
		{
			Name:       "Maria",
			Year:       &year,
			VesselType: "Schooner",
			LivesLost:  &lives,
			Location:   "Thunder Bay",
			Cause:      "Storm",
			Latitude:   &lat,
			Longitude:  &lon,
		},
		{
			// Missing year, lives lost, and coordinates stay missing.
			Name:       "Ghost",
			VesselType: "Steamer",
		},
	}

	n, err := st.InsertWrecks(ctx, records)
	if err != nil {
		t.Fatalf("insert wrecks: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 inserts, got %d", n)
	}

	count, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 stored records, got %d", count)
	}

	got, err := st.ListWrecks(ctx)
	if err != nil {
		t.Fatalf("list wrecks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	maria := got[0]
	if maria.Name != "Maria" || maria.VesselType != "Schooner" || maria.Location != "Thunder Bay" || maria.Cause != "Storm" {
		t.Fatalf("unexpected first record: %+v", maria)
	}
	if maria.Year == nil || *maria.Year != 1850 {
		t.Fatalf("year did not survive the round trip: %+v", maria.Year)
	}
	if maria.LivesLost == nil || *maria.LivesLost != 3 {
		t.Fatalf("lives lost did not survive the round trip: %+v", maria.LivesLost)
	}
	if maria.Latitude == nil || *maria.Latitude != 44.5 || maria.Longitude == nil || *maria.Longitude != -82.1 {
		t.Fatalf("coordinates did not survive the round trip: %+v", maria)
	}

	ghost := got[1]
	if ghost.Name != "Ghost" {
		t.Fatalf("insertion order not preserved: %+v", got)
	}
	if ghost.Year != nil || ghost.LivesLost != nil || ghost.Latitude != nil || ghost.Longitude != nil {
		t.Fatalf("missing fields should stay missing: %+v", ghost)
	}
}

func TestStoreClear(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.InsertWrecks(ctx, []model.WreckRecord{{Name: "Maria", VesselType: "Schooner"}}); err != nil {
		t.Fatalf("insert wrecks: %v", err)
	}
	if err := st.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	count, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected an empty table after clear, got %d", count)
	}
}

func TestStoreEmptyList(t *testing.T) {
	st := openTestStore(t)

	got, err := st.ListWrecks(context.Background())
	if err != nil {
		t.Fatalf("list wrecks: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}
