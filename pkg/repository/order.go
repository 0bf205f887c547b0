package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marshallshelly/pebble-records/pkg/builder"
	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/runtime"
)

const statusKey = "status_c"

// OrderRepository places and reads the current actor's orders.
type OrderRepository struct {
	repo    *Repository[models.Order]
	session Session
	numbers OrderNumbers
	clock   Clock
}

// OrderOption configures an OrderRepository.
type OrderOption func(*OrderRepository)

// WithOrderNumbers replaces the order number generator.
func WithOrderNumbers(g OrderNumbers) OrderOption {
	return func(r *OrderRepository) {
		r.numbers = g
	}
}

// WithClock replaces the clock used for creation timestamps.
func WithClock(c Clock) OrderOption {
	return func(r *OrderRepository) {
		r.clock = c
	}
}

// NewOrderRepository creates an OrderRepository scoped to session.
func NewOrderRepository(db *runtime.DB, session Session, opts ...OrderOption) (*OrderRepository, error) {
	repo, err := New[models.Order](db)
	if err != nil {
		return nil, err
	}
	r := &OrderRepository{
		repo:    repo,
		session: session,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.numbers == nil {
		r.numbers = TimestampOrderNumbers{Now: r.clock}
	}
	return r, nil
}

// Create places an order for the actor.
func (r *OrderRepository) Create(ctx context.Context, draft models.OrderDraft) (models.Order, error) {
	if err := r.repo.check(draft); err != nil {
		return models.Order{}, err
	}

	actor, err := r.session.CurrentActor(ctx)
	if err != nil {
		return models.Order{}, err
	}

	return r.repo.Create(ctx, models.Order{
		UserID:          actor.ID,
		OrderNumber:     r.numbers.Next(),
		Items:           draft.Items,
		Subtotal:        draft.Subtotal,
		Shipping:        draft.Shipping,
		Tax:             draft.Tax,
		Total:           draft.Total,
		ShippingAddress: draft.ShippingAddress,
		Status:          models.StatusProcessing,
		CreatedAt:       timestamp(r.clock),
	})
}

// ListForActor returns the actor's orders, newest first.
func (r *OrderRepository) ListForActor(ctx context.Context) ([]models.Order, error) {
	actor, err := r.session.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}
	return r.repo.List(ctx, r.repo.Select().
		Where(builder.Eq("user_id_c", actor.ID)).
		OrderByDesc("created_at_c"))
}

// Get loads one of the actor's orders. Orders of other profiles are reported as not found.
func (r *OrderRepository) Get(ctx context.Context, id int64) (models.Order, error) {
	actor, err := r.session.CurrentActor(ctx)
	if err != nil {
		return models.Order{}, err
	}

	order, err := r.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, runtime.ErrNotFound) {
			return models.Order{}, fmt.Errorf("order %d: %w", id, runtime.ErrNotFound)
		}
		return models.Order{}, err
	}
	if order.UserID != actor.ID {
		return models.Order{}, fmt.Errorf("order %d: %w", id, runtime.ErrNotFound)
	}
	return order, nil
}

// UpdateStatus changes the status of one of the actor's orders.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) (models.Order, error) {
	order, err := r.Get(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	order.Status = status
	return r.repo.UpdateFields(ctx, order, statusKey)
}
