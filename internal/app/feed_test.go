package app

import (
	"testing"
	"time"
)

func TestUpcomingAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	events := []Event{
		{ID: "ws-1", Titel: "Verleden", Datum: "2026-05-01T10:00:00.000Z", Actief: true},
		{ID: "ws-2", Titel: "Inactief", Datum: "2026-07-01T10:00:00.000Z", Actief: false},
		{ID: "ws-3", Titel: "Laat", Datum: "2026-09-01T10:00:00.000Z", Actief: true},
		{ID: "ws-4", Titel: "Vroeg", Datum: "2026-06-15T10:00:00.000Z", Actief: true},
		{ID: "ws-5", Titel: "Kapotte datum", Datum: "volgende week", Actief: true},
	}

	upcoming := UpcomingAt(events, now)

	if len(upcoming) != 2 {
		t.Fatalf("Expected 2 upcoming events, got %d", len(upcoming))
	}
	if upcoming[0].ID != "ws-4" || upcoming[1].ID != "ws-3" {
		t.Errorf("Expected ascending order [ws-4 ws-3], got [%s %s]", upcoming[0].ID, upcoming[1].ID)
	}
}

func TestUpcomingAtBoundaryIsInclusive(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	events := []Event{
		{ID: "ws-1", Datum: "2026-06-01T12:00:00.000Z", Actief: true},
	}

	upcoming := UpcomingAt(events, now)
	if len(upcoming) != 1 {
		t.Fatalf("An event at exactly the evaluation instant should still be upcoming")
	}
}

func TestUpcomingAtStableOrderOnTies(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	events := []Event{
		{ID: "ws-a", Datum: "2026-03-01T10:00:00.000Z", Actief: true},
		{ID: "ws-b", Datum: "2026-03-01T10:00:00.000Z", Actief: true},
		{ID: "ws-c", Datum: "2026-03-01T10:00:00.000Z", Actief: true},
	}

	upcoming := UpcomingAt(events, now)
	if len(upcoming) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(upcoming))
	}
	for i, want := range []string{"ws-a", "ws-b", "ws-c"} {
		if upcoming[i].ID != want {
			t.Errorf("Tie at position %d: got %s, want %s (stored order must be preserved)", i, upcoming[i].ID, want)
		}
	}
}

func TestUpcomingAtEmptyInput(t *testing.T) {
	upcoming := UpcomingAt(nil, time.Now())
	if upcoming == nil {
		t.Error("UpcomingAt should return an empty slice, not nil")
	}
	if len(upcoming) != 0 {
		t.Errorf("Expected no events, got %d", len(upcoming))
	}
}
