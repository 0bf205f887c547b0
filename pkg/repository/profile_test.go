package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/record"
	"github.com/marshallshelly/pebble-records/pkg/runtime"
)

// sequenceIDs hands out consecutive Ids.
type sequenceIDs struct{ next int64 }

func (s *sequenceIDs) Next([]models.Address) int64 {
	s.next++
	return s.next
}

func newProfiles(t *testing.T, db *runtime.DB, opts ...ProfileOption) *ProfileRepository {
	t.Helper()
	profiles, err := New[models.UserProfile](db)
	require.NoError(t, err)
	repo, err := NewProfileRepository(db, FirstProfileSession{Profiles: profiles}, opts...)
	require.NoError(t, err)
	return repo
}

func TestProfileRepository_AddAddress(t *testing.T) {
	ctx := context.Background()
	store, db := newTestDB(t)
	seedProfile(store, "a@b.co")

	repo := newProfiles(t, db, WithAddressIDs(&sequenceIDs{}))

	first, err := repo.AddAddress(ctx, models.Address{Street: "1 Main", City: "Springfield"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, int64(1), first.ID)

	second, err := repo.AddAddress(ctx, models.Address{Street: "2 Side", IsDefault: true})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, int64(2), second.ID)

	addresses, err := repo.Addresses(ctx)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, first, addresses[0])
	assert.Equal(t, second, addresses[1])

	current, err := repo.Current(ctx)
	require.NoError(t, err)
	def, ok := current.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, "1 Main", def.Street)
}

func TestProfileRepository_KeepsStoredAddressKeys(t *testing.T) {
	ctx := context.Background()
	store, db := newTestDB(t)
	ids := store.Seed(models.ProfileTable, record.Record{
		"email_c":     "a@b.co",
		"addresses_c": `[{"Id":1,"name":"Jane","address":"1 Main","zip":"62701","landmark":"blue door","isDefault":true}]`,
	})
	first := map[string]any{
		"Id":        float64(1),
		"name":      "Jane",
		"address":   "1 Main",
		"zip":       "62701",
		"landmark":  "blue door",
		"isDefault": true,
	}

	stored := func() []map[string]any {
		t.Helper()
		rec, err := db.Get(ctx, models.ProfileTable, ids[0], nil)
		require.NoError(t, err)
		var out []map[string]any
		require.NoError(t, json.Unmarshal([]byte(rec["addresses_c"].(string)), &out))
		return out
	}

	repo := newProfiles(t, db, WithAddressIDs(&sequenceIDs{next: 1}))

	added, err := repo.AddAddress(ctx, models.Address{Street: "2 Side"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), added.ID)
	assert.False(t, added.IsDefault)

	addresses := stored()
	require.Len(t, addresses, 2)
	assert.Equal(t, first, addresses[0])
	assert.Equal(t, "2 Side", addresses[1]["street"])

	_, err = repo.Update(ctx, models.ProfileUpdate{FirstName: "Janet"})
	require.NoError(t, err)
	addresses = stored()
	require.Len(t, addresses, 2)
	assert.Equal(t, first, addresses[0])

	current, err := repo.Current(ctx)
	require.NoError(t, err)
	def, ok := current.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, "blue door", def.Extra["landmark"])
}

func TestProfileRepository_Update(t *testing.T) {
	ctx := context.Background()
	store, db := newTestDB(t)
	seedProfile(store, "a@b.co")

	repo := newProfiles(t, db, WithAddressIDs(&sequenceIDs{}))
	_, err := repo.AddAddress(ctx, models.Address{Street: "1 Main"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, models.ProfileUpdate{FirstName: "Janet", LastName: "Doe", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)
	assert.Equal(t, "a@b.co", updated.Email)
	require.Len(t, updated.Addresses, 1, "nil addresses keep the stored list")

	updated, err = repo.Update(ctx, models.ProfileUpdate{FirstName: "Janet", Addresses: []models.Address{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Addresses)
	assert.Equal(t, "2026-01-01T00:00:00.000Z", updated.CreatedAt)
}

func TestProfileRepository_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	_, db := newTestDB(t)
	repo := newProfiles(t, db)

	_, err := repo.Current(ctx)
	assert.True(t, errors.Is(err, runtime.ErrUnauthenticated))

	_, err = repo.AddAddress(ctx, models.Address{Street: "x"})
	assert.True(t, errors.Is(err, runtime.ErrUnauthenticated))

	_, err = repo.Update(ctx, models.ProfileUpdate{})
	assert.True(t, errors.Is(err, runtime.ErrUnauthenticated))
}
