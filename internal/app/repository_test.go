package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo returns a repository over a fresh fake blob backend with a
// fixed clock.
func testRepo(t *testing.T) (*Repository, *fakeS3) {
	t.Helper()
	fake := newFakeS3()
	store := NewBlobStoreWithClient(fake, "she-site", "she-events")
	repo := NewRepository(store)
	repo.now = func() time.Time {
		return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	}
	return repo, fake
}

func TestRepository_CreateAndList(t *testing.T) {
	for _, category := range Categories() {
		t.Run(category, func(t *testing.T) {
			repo, _ := testRepo(t)
			ctx := context.Background()

			before, err := repo.List(ctx, category)
			require.NoError(t, err)

			created, err := repo.Create(ctx, NewEventInput{
				Type:         category,
				Titel:        "Nieuwe bijeenkomst",
				Beschrijving: "Beschrijving",
				Datum:        "2026-03-01T10:00:00.000Z",
				Locatie:      "Amsterdam",
			})
			require.NoError(t, err)

			wantID := fmt.Sprintf("%s-%d", IDPrefix(category), repo.now().UnixMilli())
			assert.Equal(t, wantID, created.ID)
			assert.Equal(t, DefaultImageURL, created.Afbeelding, "omitted afbeelding should get the stock photo")
			assert.True(t, created.Actief, "actief should default to true")

			after, err := repo.List(ctx, category)
			require.NoError(t, err)
			require.Len(t, after, len(before)+1)
			assert.Equal(t, created, after[len(after)-1], "new event should be appended at the end")

			ids := map[string]int{}
			for _, e := range after {
				ids[e.ID]++
			}
			assert.Equal(t, 1, ids[created.ID], "id must be unique within the category")
		})
	}
}

func TestRepository_CreateValidation(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	valid := NewEventInput{
		Type:         "workshop",
		Titel:        "Titel",
		Beschrijving: "Beschrijving",
		Datum:        "2026-03-01T10:00:00.000Z",
		Locatie:      "Amsterdam",
	}

	tests := []struct {
		name    string
		mutate  func(*NewEventInput)
		wantErr error
	}{
		{"missing titel", func(in *NewEventInput) { in.Titel = "" }, ErrMissingFields},
		{"missing beschrijving", func(in *NewEventInput) { in.Beschrijving = "" }, ErrMissingFields},
		{"missing datum", func(in *NewEventInput) { in.Datum = "" }, ErrMissingFields},
		{"missing locatie", func(in *NewEventInput) { in.Locatie = "" }, ErrMissingFields},
		{"missing type", func(in *NewEventInput) { in.Type = "" }, ErrMissingFields},
		{"unknown type", func(in *NewEventInput) { in.Type = "congres" }, ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := repo.Create(ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRepository_CreateExplicitInactive(t *testing.T) {
	repo, _ := testRepo(t)
	inactive := false

	created, err := repo.Create(context.Background(), NewEventInput{
		Type:         "workshop",
		Titel:        "Concept",
		Beschrijving: "Nog niet zichtbaar",
		Datum:        "2026-03-01T10:00:00.000Z",
		Locatie:      "Amsterdam",
		Actief:       &inactive,
	})
	require.NoError(t, err)
	assert.False(t, created.Actief)
}

func TestRepository_Update(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, NewEventInput{
		Type:         "training",
		Titel:        "Oude titel",
		Beschrijving: "Oude beschrijving",
		Datum:        "2026-03-01T10:00:00.000Z",
		Locatie:      "Amsterdam",
	})
	require.NoError(t, err)

	t.Run("only supplied fields change", func(t *testing.T) {
		titel := "Nieuwe titel"
		updated, err := repo.Update(ctx, "trainingen", created.ID, EventPatch{Titel: &titel})
		require.NoError(t, err)

		want := created
		want.Titel = titel
		assert.Equal(t, want, updated, "every other field must be untouched")
	})

	t.Run("explicit actief false is applied", func(t *testing.T) {
		inactive := false
		updated, err := repo.Update(ctx, "training", created.ID, EventPatch{Actief: &inactive})
		require.NoError(t, err)
		assert.False(t, updated.Actief)

		events, err := repo.List(ctx, "training")
		require.NoError(t, err)
		for _, e := range events {
			if e.ID == created.ID {
				assert.False(t, e.Actief, "the stored record should be inactive too")
			}
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		titel := "x"
		_, err := repo.Update(ctx, "training", "tr-0", EventPatch{Titel: &titel})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.Update(ctx, "training", "", EventPatch{})
		assert.ErrorIs(t, err, ErrMissingID)
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := repo.Update(ctx, "", created.ID, EventPatch{})
		assert.ErrorIs(t, err, ErrMissingID)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, NewEventInput{
		Type:         "evenement",
		Titel:        "Weg ermee",
		Beschrijving: "Beschrijving",
		Datum:        "2026-03-01T10:00:00.000Z",
		Locatie:      "Amsterdam",
	})
	require.NoError(t, err)

	before, err := repo.List(ctx, "evenement")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "evenementen", created.ID))

	after, err := repo.List(ctx, "evenement")
	require.NoError(t, err)
	assert.Len(t, after, len(before)-1)
	for _, e := range after {
		assert.NotEqual(t, created.ID, e.ID)
	}

	t.Run("unknown id leaves the list unchanged", func(t *testing.T) {
		err := repo.Delete(ctx, "evenement", "ev-0")
		assert.ErrorIs(t, err, ErrEventNotFound)

		unchanged, err := repo.List(ctx, "evenement")
		require.NoError(t, err)
		assert.Equal(t, after, unchanged)
	})

	t.Run("missing params", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, "", "ev-1"), ErrMissingID)
		assert.ErrorIs(t, repo.Delete(ctx, "evenement", ""), ErrMissingID)
	})
}

func TestRepository_ListAll(t *testing.T) {
	repo, _ := testRepo(t)

	all := repo.ListAll(context.Background())

	workshops, err := SeedEvents(CategoryWorkshop)
	require.NoError(t, err)
	trainingen, err := SeedEvents(CategoryTraining)
	require.NoError(t, err)
	evenementen, err := SeedEvents(CategoryEvenement)
	require.NoError(t, err)

	assert.Equal(t, workshops, all.Workshops)
	assert.Equal(t, trainingen, all.Trainingen)
	assert.Equal(t, evenementen, all.Evenementen)
}

func TestRepository_AliasesShareOneDocument(t *testing.T) {
	repo, fake := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, NewEventInput{
		Type:         "workshops",
		Titel:        "Via alias",
		Beschrijving: "Beschrijving",
		Datum:        "2026-03-01T10:00:00.000Z",
		Locatie:      "Amsterdam",
	})
	require.NoError(t, err)

	// The plural alias and the canonical key both resolve to the same blob.
	_, ok := fake.object("she-events/workshop.json")
	assert.True(t, ok, "alias writes should land at the canonical key")

	fromAlias, err := repo.List(ctx, "workshops")
	require.NoError(t, err)
	fromCanonical, err := repo.List(ctx, "workshop")
	require.NoError(t, err)
	assert.Equal(t, fromCanonical, fromAlias)
	assert.Equal(t, created, fromAlias[len(fromAlias)-1])
}

func TestRepository_Upcoming(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, NewEventInput{
		Type:         "workshop",
		Titel:        "Toekomstig maar inactief",
		Beschrijving: "Beschrijving",
		Datum:        "2026-06-01T10:00:00.000Z",
		Locatie:      "Amsterdam",
	})
	require.NoError(t, err)

	upcoming, err := repo.Upcoming(ctx, "workshop")
	require.NoError(t, err)
	found := false
	for _, e := range upcoming {
		if e.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found, "future active event should be in the agenda")

	// Deactivate and confirm it drops out even though its date is future.
	inactive := false
	_, err = repo.Update(ctx, "workshop", created.ID, EventPatch{Actief: &inactive})
	require.NoError(t, err)

	upcoming, err = repo.Upcoming(ctx, "workshop")
	require.NoError(t, err)
	for _, e := range upcoming {
		assert.NotEqual(t, created.ID, e.ID, "inactive events must never appear in the agenda")
	}
}
