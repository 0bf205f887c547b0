package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-records/pkg/memstore"
	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/record"
	"github.com/marshallshelly/pebble-records/pkg/runtime"
)

type fixedNumbers string

func (n fixedNumbers) Next() string { return string(n) }

func newOrders(t *testing.T, db *runtime.DB, session Session, opts ...OrderOption) *OrderRepository {
	t.Helper()
	repo, err := NewOrderRepository(db, session, opts...)
	require.NoError(t, err)
	return repo
}

func draft(total float64) models.OrderDraft {
	return models.OrderDraft{
		Items:           []models.LineItem{{"productId": "7", "name": "Trail Runner"}},
		Subtotal:        total,
		Total:           total,
		ShippingAddress: models.Address{Street: "1 Main"},
	}
}

func TestOrderRepository_Create(t *testing.T) {
	ctx := context.Background()
	_, db := newTestDB(t)
	session := StaticSession{Actor: models.UserProfile{ID: 4}}

	repo := newOrders(t, db, session, WithClock(fixedClock), WithOrderNumbers(fixedNumbers("VO00000001")))

	order, err := repo.Create(ctx, draft(25))
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, int64(4), order.UserID)
	assert.Equal(t, "VO00000001", order.OrderNumber)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, "2026-03-04T05:06:07.000Z", order.CreatedAt)
	assert.Equal(t, 25.0, order.Total)
	assert.Equal(t, "Trail Runner", order.Items[0]["name"])
	assert.Equal(t, "1 Main", order.ShippingAddress.Street)
}

func TestOrderRepository_CreateValidation(t *testing.T) {
	ctx := context.Background()
	store, db := newTestDB(t)
	repo := newOrders(t, db, StaticSession{Actor: models.UserProfile{ID: 4}})

	_, err := repo.Create(ctx, models.OrderDraft{})
	var ve *runtime.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "items", ve.Field)

	bad := draft(10)
	bad.Tax = -1
	_, err = repo.Create(ctx, bad)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "tax", ve.Field)

	assert.Equal(t, 0, store.Len(models.OrderTable))
}

func TestOrderRepository_CreateUnauthenticated(t *testing.T) {
	_, db := newTestDB(t)
	repo := newOrders(t, db, StaticSession{})

	_, err := repo.Create(context.Background(), draft(1))
	assert.True(t, errors.Is(err, runtime.ErrUnauthenticated))
}

func TestOrderRepository_ListForActor(t *testing.T) {
	ctx := context.Background()
	_, db := newTestDB(t)

	tick := fixedNow
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	mine := newOrders(t, db, StaticSession{Actor: models.UserProfile{ID: 1}}, WithClock(clock))
	theirs := newOrders(t, db, StaticSession{Actor: models.UserProfile{ID: 2}}, WithClock(clock))

	a, err := mine.Create(ctx, draft(1))
	require.NoError(t, err)
	_, err = theirs.Create(ctx, draft(2))
	require.NoError(t, err)
	b, err := mine.Create(ctx, draft(3))
	require.NoError(t, err)

	list, err := mine.ListForActor(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID, "newest first")
	assert.Equal(t, a.ID, list[1].ID)
}

func TestOrderRepository_GetOtherActorIsNotFound(t *testing.T) {
	ctx := context.Background()
	_, db := newTestDB(t)

	owner := newOrders(t, db, StaticSession{Actor: models.UserProfile{ID: 1}})
	other := newOrders(t, db, StaticSession{Actor: models.UserProfile{ID: 2}})

	order, err := owner.Create(ctx, draft(9))
	require.NoError(t, err)

	got, err := owner.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order, got)

	_, err = other.Get(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, runtime.ErrNotFound))

	_, err = owner.Get(ctx, 404)
	assert.True(t, errors.Is(err, runtime.ErrNotFound))
}

func TestOrderRepository_LookupOwner(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	db := runtime.NewDB(store, runtime.DiscardLogger())

	ids := store.Seed(models.OrderTable, map[string]any{
		"user_id_c":      map[string]any{"Id": 5, "Name": "Jane"},
		"order_number_c": "VO1",
	})

	repo := newOrders(t, db, StaticSession{Actor: models.UserProfile{ID: 5}})
	order, err := repo.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, int64(5), order.UserID)
	assert.Equal(t, models.StatusProcessing, order.Status)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	_, db := newTestDB(t)
	repo := newOrders(t, db, StaticSession{Actor: models.UserProfile{ID: 1}}, WithOrderNumbers(fixedNumbers("VO1")))

	order, err := repo.Create(ctx, draft(5))
	require.NoError(t, err)

	shipped, err := repo.UpdateStatus(ctx, order.ID, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, shipped.Status)
	assert.Equal(t, "VO1", shipped.OrderNumber)
	assert.Equal(t, order.CreatedAt, shipped.CreatedAt)
}

func TestOrderRepository_UpdateStatusKeepsDocuments(t *testing.T) {
	ctx := context.Background()
	store, db := newTestDB(t)
	ids := store.Seed(models.OrderTable, record.Record{
		"user_id_c":          1,
		"order_number_c":     "VO1",
		"items_c":            `[{"sku":"TR-9","qty":2}]`,
		"shipping_address_c": `{"name":"Jane","address":"1 Main","zip":"62701"}`,
		"status_c":           models.StatusProcessing,
	})

	repo := newOrders(t, db, StaticSession{Actor: models.UserProfile{ID: 1}})
	shipped, err := repo.UpdateStatus(ctx, ids[0], models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, shipped.Status)
	assert.Equal(t, "62701", shipped.ShippingAddress.Extra["zip"])

	rec, err := db.Get(ctx, models.OrderTable, ids[0], nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, rec["status_c"])
	assert.JSONEq(t, `{"name":"Jane","address":"1 Main","zip":"62701"}`, rec["shipping_address_c"].(string))
	assert.JSONEq(t, `[{"sku":"TR-9","qty":2}]`, rec["items_c"].(string))
}

func TestRepository_UpdateFieldsRejectsImmutableKeys(t *testing.T) {
	ctx := context.Background()
	_, db := newTestDB(t)
	repo := newOrders(t, db, StaticSession{Actor: models.UserProfile{ID: 1}})

	order, err := repo.Create(ctx, draft(5))
	require.NoError(t, err)

	_, err = repo.repo.UpdateFields(ctx, order, "order_number_c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no mutable field order_number_c")
}
