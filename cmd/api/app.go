package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/healthcare-api/internal/config"
	"github.com/harentsoaR/healthcare-api/internal/handlers"
	"github.com/harentsoaR/healthcare-api/internal/jobs"
	"github.com/harentsoaR/healthcare-api/internal/logger"
	"github.com/harentsoaR/healthcare-api/internal/services"
	"github.com/harentsoaR/healthcare-api/internal/session"
	"github.com/harentsoaR/healthcare-api/internal/store"
	"github.com/harentsoaR/healthcare-api/internal/utils"
)

// app holds the wired dependencies shared by the subcommands.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   store.Store
	revoker session.Revoker
	sweeper jobs.Sweeper
	handler *handlers.Handler
	closers []func(context.Context) error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a := &app{cfg: cfg, log: logger.New(cfg.LogLevel, cfg.Env)}

	if err := a.openStore(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}
	if err := a.openRevoker(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}
	if err := a.buildHandler(); err != nil {
		a.close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.StoreDriver {
	case config.DriverMemory:
		a.log.Warn().Msg("using in-memory store, data is lost on restart")
		a.store = store.NewMemory()
		return nil
	case config.DriverMongo:
		client, err := store.Connect(ctx, a.cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)

		m := store.NewMongo(client.Database(a.cfg.MongoDatabase))
		if err := m.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
		a.log.Info().Str("database", a.cfg.MongoDatabase).Msg("connected to mongodb")
		a.store = m
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", a.cfg.StoreDriver)
	}
}

func (a *app) openRevoker(ctx context.Context) error {
	if a.cfg.RedisURL == "" {
		mem := session.NewMemoryRevoker()
		a.revoker, a.sweeper = mem, mem
		return nil
	}

	rdb, err := session.ConnectRedis(ctx, a.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	a.revoker = session.NewRedisRevoker(rdb)
	a.log.Info().Msg("session revocations stored in redis")
	return nil
}

func (a *app) buildHandler() error {
	tokens, err := utils.NewTokenManager(a.cfg.JWTSecret, a.cfg.SessionTTL)
	if err != nil {
		return err
	}
	notifier := services.NewNotificationService(a.cfg.TextbeltAPIKey, a.log)

	a.handler = &handlers.Handler{
		Auth:          services.NewAuthService(a.store, tokens, a.revoker, a.cfg.BcryptCost, a.log),
		Profiles:      services.NewProfileService(a.store, a.log),
		Appointments:  services.NewAppointmentService(a.store, a.store, notifier, a.log),
		Prescriptions: services.NewPrescriptionService(a.store, a.store, a.log),
		Reports:       services.NewReportService(a.store, a.store, a.log),
		Contacts:      services.NewContactService(a.store, a.log),
		Admin:         services.NewAdminService(a.store, a.log),
		Cookie: handlers.CookieConfig{
			Name:   a.cfg.CookieName,
			Domain: a.cfg.CookieDomain,
			Secure: a.cfg.CookieSecure,
		},
		Log: a.log,
	}
	return nil
}

// close releases connections in reverse order of opening.
func (a *app) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Error().Err(err).Msg("close connection")
		}
	}
	a.closers = nil
}
