package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Repository is the single entry point for reading and mutating events.
// Every operation normalizes the category first, then works against the
// store with read-modify-write over the full category document.
type Repository struct {
	store *BlobStore

	// now is the clock for id generation and the upcoming filter.
	now func() time.Time
}

// NewRepository creates a Repository on top of a store.
func NewRepository(store *BlobStore) *Repository {
	return &Repository{store: store, now: time.Now}
}

// List returns the full event list for a category (admin view: includes
// inactive and past events).
func (r *Repository) List(ctx context.Context, category string) ([]Event, error) {
	canonical, err := CanonicalCategory(category)
	if err != nil {
		return nil, err
	}
	return r.store.Load(ctx, canonical)
}

// ListAll fetches all three categories concurrently and assembles them
// under their Dutch plural keys. A degraded category falls back to
// bundled data inside Load; it never takes the other two down with it.
func (r *Repository) ListAll(ctx context.Context) AllEvents {
	var (
		wg  sync.WaitGroup
		all AllEvents
	)

	targets := []struct {
		canonical string
		dest      *[]Event
	}{
		{CategoryWorkshop, &all.Workshops},
		{CategoryTraining, &all.Trainingen},
		{CategoryEvenement, &all.Evenementen},
	}

	for _, t := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			events, err := r.store.Load(ctx, t.canonical)
			if err != nil {
				// Only reachable for an unknown category, which these are not.
				log.Printf("Error loading %s: %v", t.canonical, err)
				events = []Event{}
			}
			*t.dest = events
		}()
	}
	wg.Wait()

	// JSON arrays, not nulls, even when a category is empty.
	if all.Workshops == nil {
		all.Workshops = []Event{}
	}
	if all.Trainingen == nil {
		all.Trainingen = []Event{}
	}
	if all.Evenementen == nil {
		all.Evenementen = []Event{}
	}
	return all
}

// Create validates the input, assigns an id and defaults, appends the
// event to its category document and writes the document back.
func (r *Repository) Create(ctx context.Context, in NewEventInput) (Event, error) {
	if strings.TrimSpace(in.Type) == "" ||
		strings.TrimSpace(in.Titel) == "" ||
		strings.TrimSpace(in.Beschrijving) == "" ||
		strings.TrimSpace(in.Datum) == "" ||
		strings.TrimSpace(in.Locatie) == "" {
		return Event{}, ErrMissingFields
	}

	canonical, err := CanonicalCategory(in.Type)
	if err != nil {
		return Event{}, err
	}

	event := Event{
		ID:           fmt.Sprintf("%s-%d", IDPrefix(canonical), r.now().UnixMilli()),
		Titel:        in.Titel,
		Beschrijving: in.Beschrijving,
		Datum:        in.Datum,
		Locatie:      in.Locatie,
		Afbeelding:   in.Afbeelding,
		Actief:       true,
	}
	if event.Afbeelding == "" {
		event.Afbeelding = DefaultImageURL
	}
	if in.Actief != nil {
		event.Actief = *in.Actief
	}

	events, err := r.store.Load(ctx, canonical)
	if err != nil {
		return Event{}, err
	}
	events = append(events, event)
	r.store.Save(ctx, canonical, events)

	return event, nil
}

// Update merges the patch into the event with the given id. Set fields
// overwrite, nil fields keep their previous value; Actief overwrites
// whenever the caller supplied a boolean, false included.
func (r *Repository) Update(ctx context.Context, category, id string, patch EventPatch) (Event, error) {
	if strings.TrimSpace(category) == "" || strings.TrimSpace(id) == "" {
		return Event{}, ErrMissingID
	}

	canonical, err := CanonicalCategory(category)
	if err != nil {
		return Event{}, err
	}

	events, err := r.store.Load(ctx, canonical)
	if err != nil {
		return Event{}, err
	}

	index := -1
	for i := range events {
		if events[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return Event{}, ErrEventNotFound
	}

	event := &events[index]
	if patch.Titel != nil && *patch.Titel != "" {
		event.Titel = *patch.Titel
	}
	if patch.Beschrijving != nil && *patch.Beschrijving != "" {
		event.Beschrijving = *patch.Beschrijving
	}
	if patch.Datum != nil && *patch.Datum != "" {
		event.Datum = *patch.Datum
	}
	if patch.Locatie != nil && *patch.Locatie != "" {
		event.Locatie = *patch.Locatie
	}
	if patch.Afbeelding != nil && *patch.Afbeelding != "" {
		event.Afbeelding = *patch.Afbeelding
	}
	if patch.Actief != nil {
		event.Actief = *patch.Actief
	}

	r.store.Save(ctx, canonical, events)
	return *event, nil
}

// Delete removes the event with the given id from its category document.
func (r *Repository) Delete(ctx context.Context, category, id string) error {
	if strings.TrimSpace(category) == "" || strings.TrimSpace(id) == "" {
		return ErrMissingID
	}

	canonical, err := CanonicalCategory(category)
	if err != nil {
		return err
	}

	events, err := r.store.Load(ctx, canonical)
	if err != nil {
		return err
	}

	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == len(events) {
		return ErrEventNotFound
	}

	r.store.Save(ctx, canonical, filtered)
	return nil
}

// Upcoming returns the public agenda for a category: active events that
// have not yet taken place, soonest first.
func (r *Repository) Upcoming(ctx context.Context, category string) ([]Event, error) {
	events, err := r.List(ctx, category)
	if err != nil {
		return nil, err
	}
	return UpcomingAt(events, r.now()), nil
}
