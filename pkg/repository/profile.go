package repository

import (
	"context"

	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/runtime"
)

const emailKey = "email_c"

// ProfileRepository reads and edits the current actor's profile.
type ProfileRepository struct {
	repo       *Repository[models.UserProfile]
	session    Session
	addressIDs AddressIDs
}

// ProfileOption configures a ProfileRepository.
type ProfileOption func(*ProfileRepository)

// WithAddressIDs replaces the address Id generator.
func WithAddressIDs(g AddressIDs) ProfileOption {
	return func(r *ProfileRepository) {
		r.addressIDs = g
	}
}

// NewProfileRepository creates a ProfileRepository scoped to session.
func NewProfileRepository(db *runtime.DB, session Session, opts ...ProfileOption) (*ProfileRepository, error) {
	repo, err := New[models.UserProfile](db)
	if err != nil {
		return nil, err
	}
	r := &ProfileRepository{
		repo:       repo,
		session:    session,
		addressIDs: TimestampAddressIDs{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Current returns the actor's profile.
func (r *ProfileRepository) Current(ctx context.Context) (models.UserProfile, error) {
	return r.session.CurrentActor(ctx)
}

// Update merges the editable attributes into the stored profile.
// A nil address list keeps the stored one.
func (r *ProfileRepository) Update(ctx context.Context, update models.ProfileUpdate) (models.UserProfile, error) {
	current, err := r.session.CurrentActor(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}

	current.FirstName = update.FirstName
	current.LastName = update.LastName
	current.Phone = update.Phone
	if update.Addresses != nil {
		current.Addresses = update.Addresses
	}

	return r.repo.Update(ctx, current)
}

// Addresses returns the actor's address list.
func (r *ProfileRepository) Addresses(ctx context.Context) ([]models.Address, error) {
	current, err := r.session.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}
	return current.Addresses, nil
}

// AddAddress appends an address to the actor's list.
// The first address becomes the default; later ones never do.
func (r *ProfileRepository) AddAddress(ctx context.Context, addr models.Address) (models.Address, error) {
	current, err := r.session.CurrentActor(ctx)
	if err != nil {
		return models.Address{}, err
	}

	addr.ID = r.addressIDs.Next(current.Addresses)
	addr.IsDefault = len(current.Addresses) == 0

	addresses := make([]models.Address, 0, len(current.Addresses)+1)
	addresses = append(addresses, current.Addresses...)
	current.Addresses = append(addresses, addr)

	if _, err := r.repo.Update(ctx, current); err != nil {
		return models.Address{}, err
	}
	return addr, nil
}
