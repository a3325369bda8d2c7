// Package server wires configuration, storage and both transports into a
// runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dmitrijs2005/credgate/internal/common"
	"github.com/dmitrijs2005/credgate/internal/dbx"
	"github.com/dmitrijs2005/credgate/internal/logging"
	"github.com/dmitrijs2005/credgate/internal/server/auth"
	"github.com/dmitrijs2005/credgate/internal/server/config"
	"github.com/dmitrijs2005/credgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/credgate/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/credgate/internal/server/grpc"
	hs "github.com/dmitrijs2005/credgate/internal/server/http"
)

const startupPingTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	authService *services.AuthService
	userService *services.UserService
}

// NewApp validates c, opens the store selected by it and builds the services.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSON(out, "credgate", logging.ParseLevel(c.LogLevel))

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, using in-memory credential store")
		rm = repomanager.NewMemoryRepositoryManager()
	} else {
		var err error
		db, err = repomanager.OpenPostgres(c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := dbx.Ping(ctx, db, startupPingTimeout); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db ping error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey),
		auth.WithTTL(c.AccessTokenTTL),
		auth.WithIssuer(c.Issuer),
	)
	if err != nil {
		return nil, err
	}

	hasher := auth.NewBcryptHasher(c.BcryptCost)

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		authService: services.NewAuthService(db, rm, hasher, tokens, logger),
		userService: services.NewUserService(db, rm, hasher),
	}

	if err := app.seed(ctx); err != nil {
		app.close()
		return nil, err
	}

	logger.Info(ctx, "config loaded", "config", c)
	return app, nil
}

// seed creates the development user given as "email:password".
func (app *App) seed(ctx context.Context) error {
	if app.config.SeedUser == "" {
		return nil
	}

	email, password, ok := strings.Cut(app.config.SeedUser, ":")
	if !ok {
		return fmt.Errorf("%w: seed user must be email:password", common.ErrorValidation)
	}

	u, err := app.userService.Register(ctx, email, password)
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	app.logger.Info(ctx, "seed user created", "user_id", u.ID)
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or
// either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		router := hs.NewRouter(app.logger, app.authService)
		return hs.NewServer(app.config.HTTPAddr, router, app.logger).Run(ctx)
	})

	g.Go(func() error {
		return gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.authService).Run(ctx)
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return err
}

func (app *App) close() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
}
