package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/marshallshelly/pebble-records/pkg/builder"
	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/runtime"
)

// Session resolves the profile acting on the store.
type Session interface {
	CurrentActor(ctx context.Context) (models.UserProfile, error)
}

// FirstProfileSession treats the first profile the store returns as the actor.
// It is a single-tenant local session: any caller reaching the store acts as that profile.
type FirstProfileSession struct {
	Profiles *Repository[models.UserProfile]
}

// CurrentActor implements Session.
func (s FirstProfileSession) CurrentActor(ctx context.Context) (models.UserProfile, error) {
	return actor(ctx, s.Profiles, s.Profiles.Select())
}

// EmailSession resolves the actor by login email.
type EmailSession struct {
	Profiles *Repository[models.UserProfile]
	Email    string
}

// CurrentActor implements Session.
func (s EmailSession) CurrentActor(ctx context.Context) (models.UserProfile, error) {
	if s.Email == "" {
		return models.UserProfile{}, runtime.ErrUnauthenticated
	}
	return actor(ctx, s.Profiles, s.Profiles.Select().Where(builder.Eq(emailKey, s.Email)))
}

// StaticSession always returns the same actor.
type StaticSession struct {
	Actor models.UserProfile
}

// CurrentActor implements Session.
func (s StaticSession) CurrentActor(context.Context) (models.UserProfile, error) {
	if s.Actor.ID == 0 {
		return models.UserProfile{}, runtime.ErrUnauthenticated
	}
	return s.Actor, nil
}

func actor(ctx context.Context, profiles *Repository[models.UserProfile], q *builder.SelectQuery) (models.UserProfile, error) {
	p, err := profiles.First(ctx, q)
	if errors.Is(err, runtime.ErrNotFound) {
		return models.UserProfile{}, fmt.Errorf("no current profile: %w", runtime.ErrUnauthenticated)
	}
	if err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}
