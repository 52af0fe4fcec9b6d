package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/husainasfak/QuickBite-auth-service/internal/config"
	httptransport "github.com/husainasfak/QuickBite-auth-service/internal/http"
	"github.com/husainasfak/QuickBite-auth-service/internal/http/handler"
	httpmiddleware "github.com/husainasfak/QuickBite-auth-service/internal/http/middleware"
	"github.com/husainasfak/QuickBite-auth-service/internal/repository"
	"github.com/husainasfak/QuickBite-auth-service/internal/server"
	"github.com/husainasfak/QuickBite-auth-service/internal/service"
	"github.com/husainasfak/QuickBite-auth-service/internal/telemetry"
	"github.com/husainasfak/QuickBite-auth-service/internal/token"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newPGXPool,
			newUserRepository,
			newTenantRepository,
			newRefreshTokenRepository,
			newKeyMaterial,
			newIssuer,
			newVerifier,
			service.NewAuthService,
			service.NewUserService,
			service.NewTenantService,
			newAuthHandler,
			handler.NewTenantHandler,
			handler.NewUserHandler,
			httpmiddleware.NewAuth,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, runMigrations, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return repository.NewPostgresUserRepo(pool)
}

func newTenantRepository(pool *pgxpool.Pool) repository.TenantRepository {
	return repository.NewPostgresTenantRepo(pool)
}

func newRefreshTokenRepository(pool *pgxpool.Pool) repository.RefreshTokenRepository {
	return repository.NewPostgresRefreshTokenRepo(pool)
}

func newKeyMaterial(cfg config.Config) (*token.KeyMaterial, error) {
	return token.LoadKeyMaterial(cfg)
}

func newIssuer(keys *token.KeyMaterial, cfg config.Config) *token.Issuer {
	return token.NewIssuer(keys, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

func newVerifier(keys *token.KeyMaterial) *token.Verifier {
	return token.NewVerifier(keys)
}

func newAuthHandler(
	auth *service.AuthService,
	issuer *token.Issuer,
	keys *token.KeyMaterial,
	cfg config.Config,
	logger *zap.Logger,
) *handler.AuthHandler {
	return handler.NewAuthHandler(auth, issuer, keys, cfg, logger)
}

func runMigrations(cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repository.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations applied")
	return nil
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
