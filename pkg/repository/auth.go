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

// Auth failure messages shown to end users.
const (
	MsgEmailRegistered = "Email already registered"
	MsgInvalidLogin    = "Invalid email or password"
)

// Registration carries the attributes needed to create a profile.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
}

// AuthService registers profiles and resolves them by login email.
type AuthService struct {
	profiles *Repository[models.UserProfile]
	clock    Clock
}

// NewAuthService creates an AuthService.
func NewAuthService(db *runtime.DB, clock Clock) (*AuthService, error) {
	profiles, err := New[models.UserProfile](db)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}
	return &AuthService{profiles: profiles, clock: clock}, nil
}

// Profiles returns the profile repository sessions are resolved against.
func (s *AuthService) Profiles() *Repository[models.UserProfile] {
	return s.profiles
}

// Register creates a profile with an empty address list.
// An email that is already registered is a validation error.
func (s *AuthService) Register(ctx context.Context, reg Registration) (models.UserProfile, error) {
	if err := s.profiles.check(reg); err != nil {
		return models.UserProfile{}, err
	}

	_, err := s.profiles.First(ctx, s.profiles.Select().Columns(emailKey).Where(builder.Eq(emailKey, reg.Email)))
	switch {
	case err == nil:
		return models.UserProfile{}, &runtime.ValidationError{Message: MsgEmailRegistered}
	case !errors.Is(err, runtime.ErrNotFound):
		return models.UserProfile{}, err
	}

	return s.profiles.Create(ctx, models.UserProfile{
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Addresses: []models.Address{},
		CreatedAt: timestamp(s.clock),
	})
}

// Login resolves a profile by email and returns a session for it.
// Unknown emails and store failures are both reported as ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, email string) (EmailSession, models.UserProfile, error) {
	session := EmailSession{Profiles: s.profiles, Email: email}
	p, err := session.CurrentActor(ctx)
	if err != nil {
		s.profiles.log.WithError(err).Debug("login failed")
		return EmailSession{}, models.UserProfile{}, fmt.Errorf("%s: %w", MsgInvalidLogin, runtime.ErrUnauthenticated)
	}
	return session, p, nil
}
