// Package app assembles the job board backend from its stores and
// adapters.
package app

import (
	"context"
	"fmt"
	"net/http"

	httpctx "github.com/dtroode/jobboard/internal/api/http/context"
	"github.com/dtroode/jobboard/internal/api/http/router"
	"github.com/dtroode/jobboard/internal/config"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
	"github.com/dtroode/jobboard/internal/password"
	"github.com/dtroode/jobboard/internal/repository/memory"
	"github.com/dtroode/jobboard/internal/repository/postgres"
	"github.com/dtroode/jobboard/internal/service"
	"github.com/dtroode/jobboard/internal/token"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores is the persistence the services run on.
type Stores struct {
	Users         model.UserStore
	Profiles      model.ProfileStore
	Offers        model.OfferStore
	Applications  model.ApplicationStore
	RefreshTokens model.RefreshTokenStore
	DB            Pinger
	close         func() error
}

// Close releases the underlying connection, if any.
func (s Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// MemoryStores keeps everything in process memory.
func MemoryStores(db *memory.DB) Stores {
	return Stores{
		Users:         memory.NewUserRepository(db),
		Profiles:      memory.NewProfileRepository(db),
		Offers:        memory.NewOfferRepository(db),
		Applications:  memory.NewApplicationRepository(db),
		RefreshTokens: memory.NewRefreshTokenRepository(db),
		DB:            db,
	}
}

// PostgresStores connects to cfg.DSN, migrating the schema when
// cfg.AutoMigrate is set.
func PostgresStores(ctx context.Context, cfg config.Database) (Stores, error) {
	conn, err := postgres.NewConnection(ctx, cfg)
	if err != nil {
		return Stores{}, err
	}
	return Stores{
		Users:         postgres.NewUserRepository(conn),
		Profiles:      postgres.NewProfileRepository(conn),
		Offers:        postgres.NewOfferRepository(conn),
		Applications:  postgres.NewApplicationRepository(conn),
		RefreshTokens: postgres.NewRefreshTokenRepository(conn),
		DB:            conn,
		close:         conn.Close,
	}, nil
}

// OpenStores picks the store implementation named by cfg.Driver.
func OpenStores(ctx context.Context, cfg config.Database) (Stores, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return MemoryStores(memory.NewDB()), nil
	case config.DriverPostgres:
		return PostgresStores(ctx, cfg)
	}
	return Stores{}, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// App holds the wired services.
type App struct {
	Auth         *service.Auth
	Tokens       *service.TokenService
	Offers       *service.Offer
	Applications *service.Application

	stores         Stores
	allowedOrigins []string
	logger         *logger.Logger
}

// New wires the services. storage may be nil to disable resumes.
func New(
	cfg *config.Config,
	stores Stores,
	storage model.Storage,
	publisher model.EventPublisher,
	logger *logger.Logger,
) *App {
	manager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	hasher := password.NewHasher(cfg.KDF.Time, cfg.KDF.MemKiB, cfg.KDF.Par)

	tokens := service.NewTokenService(manager, stores.RefreshTokens, stores.Users, cfg.JWT.RefreshTTL, logger)
	offers := service.NewOffer(stores.Offers, logger)

	return &App{
		Auth:           service.NewAuth(stores.Users, stores.Profiles, hasher, tokens, logger),
		Tokens:         tokens,
		Offers:         offers,
		Applications:   service.NewApplication(stores.Applications, offers, storage, publisher, logger),
		stores:         stores,
		allowedOrigins: cfg.HTTP.AllowedOrigins,
		logger:         logger,
	}
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	return router.New(router.Services{
		Auth:           a.Auth,
		Offer:          a.Offers,
		Application:    a.Applications,
		Token:          a.Tokens,
		DB:             a.stores.DB,
		Context:        httpctx.NewManager(),
		AllowedOrigins: a.allowedOrigins,
	}, a.logger).Register()
}
