package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/marshallshelly/pebble-records/pkg/memstore"
	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/pgstore"
	"github.com/marshallshelly/pebble-records/pkg/registry"
	"github.com/marshallshelly/pebble-records/pkg/repository"
	"github.com/marshallshelly/pebble-records/pkg/runtime"
	"github.com/sirupsen/logrus"
)

// uniques lists the keys the store must keep unique.
var uniques = []pgstore.Unique{
	{Table: models.ProfileTable, Key: "email_c"},
}

// entities are the storefront types the commands read and write.
var entities = []any{models.UserProfile{}, models.Product{}, models.Order{}}

// registerEntities registers every entity schema and checks that each unique
// key names a field of a registered table.
func registerEntities(keys []pgstore.Unique) error {
	for _, e := range entities {
		if err := registry.Register(e); err != nil {
			return err
		}
	}
	for _, u := range keys {
		s, err := registry.GetByTable(u.Table)
		if err != nil {
			return fmt.Errorf("unique key %s.%s: %w", u.Table, u.Key, err)
		}
		if !s.HasStoreKey(u.Key) {
			return fmt.Errorf("unique key %s.%s: table has no such field", u.Table, u.Key)
		}
	}
	return nil
}

// app holds the wiring shared by every command.
type app struct {
	cfg     *runtime.Config
	log     *logrus.Logger
	db      *runtime.DB
	pg      *pgstore.Store
	auth    *repository.AuthService
	session repository.Session
}

// openApp loads configuration and connects to the configured store.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := runtime.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := runtime.NewLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	if err := registerEntities(uniques); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.Connect(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		a.pg = pg
		a.db = runtime.NewDB(pg, log)
	} else {
		opts := make([]memstore.Option, 0, len(uniques))
		for _, u := range uniques {
			opts = append(opts, memstore.WithUnique(u.Table, u.Key))
		}
		a.db = runtime.NewDB(memstore.New(opts...), log)
		log.Debug("using in-memory demo store")
		if err := seedDemo(ctx, a.db); err != nil {
			return nil, fmt.Errorf("failed to seed demo store: %w", err)
		}
	}

	a.auth, err = repository.NewAuthService(a.db, nil)
	if err != nil {
		a.Close()
		return nil, err
	}
	if email != "" {
		a.session = repository.EmailSession{Profiles: a.auth.Profiles(), Email: email}
	} else {
		a.session = repository.FirstProfileSession{Profiles: a.auth.Profiles()}
	}

	return a, nil
}

// Close releases the database pool, if any.
func (a *app) Close() {
	if a.pg != nil {
		a.pg.Close()
	}
}

func (a *app) products() (*repository.ProductRepository, error) {
	return repository.NewProductRepository(a.db)
}

func (a *app) profiles() (*repository.ProfileRepository, error) {
	return repository.NewProfileRepository(a.db, a.session)
}

func (a *app) orders(opts ...repository.OrderOption) (*repository.OrderRepository, error) {
	return repository.NewOrderRepository(a.db, a.session, opts...)
}
