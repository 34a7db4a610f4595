package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martinmohammed/auth-service/config"
	"github.com/martinmohammed/auth-service/internal/adapter/http/handler"
	httpserver "github.com/martinmohammed/auth-service/internal/adapter/http/server"
	mongorepo "github.com/martinmohammed/auth-service/internal/adapter/mongo"
	rabbitadapter "github.com/martinmohammed/auth-service/internal/adapter/rabbit"
	"github.com/martinmohammed/auth-service/internal/adapter/redisstore"
	"github.com/martinmohammed/auth-service/internal/service/auth"
	"github.com/martinmohammed/auth-service/pkg/logger"
	"github.com/martinmohammed/auth-service/pkg/mongoclient"
	"github.com/martinmohammed/auth-service/pkg/rabbit"
	"github.com/martinmohammed/auth-service/pkg/redisclient"
)

// App wires the auth service together: Mongo for users, Redis for refresh
// token sessions, optional RabbitMQ for auth lifecycle events, and the HTTP
// server on top.
type App struct {
	mongoDB    *mongoclient.MongoDB
	redisDB    *redisclient.Redis
	rabbitMQ   *rabbit.RabbitMQ
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	mongoDB, err := mongoclient.New(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}

	redisDB, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	// repositories
	userRepo := mongorepo.NewUserRepo(mongoDB.Database, cfg.Mongo.OpTimeout)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	sessionStore := redisstore.NewSessionStore(redisDB.Client, cfg.Redis.OpTimeout)

	// event publishing is best effort and off by default
	var (
		rabbitMQ *rabbit.RabbitMQ
		events   auth.EventPublisher
	)
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			return nil, err
		}

		broker := rabbitadapter.NewAuthBroker(rabbitMQ, log)
		if err := broker.DeclareExchange(ctx); err != nil {
			return nil, err
		}
		events = broker
	}

	// services
	tokenSvc := auth.NewTokenService(
		sessionStore,
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.Issuer,
		cfg.Auth.Audience,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
		log,
	)
	authSvc := auth.NewAuthService(userRepo, tokenSvc, events, log)

	healthDeps := map[string]handler.Pinger{
		"mongo": mongoDB,
		"redis": redisDB,
	}

	server, err := httpserver.New(cfg, authSvc, healthDeps, log)
	if err != nil {
		return nil, err
	}

	return &App{
		mongoDB:    mongoDB,
		redisDB:    redisDB,
		rabbitMQ:   rabbitMQ,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "auth service closed")
	}()

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "service started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Error(ctx, "failed to close RabbitMQ connection", err)
		}
	}

	if err := a.redisDB.Close(); err != nil {
		a.log.Error(ctx, "failed to close Redis client", err)
	}

	if err := a.mongoDB.Close(ctx); err != nil {
		a.log.Error(ctx, "failed to disconnect MongoDB client", err)
	}
}
