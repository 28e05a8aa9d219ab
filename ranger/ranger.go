package ranger

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/auth"
	"github.com/xy-planning-network/compass/config"
	"github.com/xy-planning-network/compass/http/resp"
	"github.com/xy-planning-network/compass/http/router"
	"github.com/xy-planning-network/compass/http/session"
	"github.com/xy-planning-network/compass/identity"
	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/postgres"
	"github.com/xy-planning-network/compass/profile"
	"github.com/xy-planning-network/compass/storage"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

// A ProviderFn constructs the identity.Provider of one visitor,
// persisting its session to s.
type ProviderFn func(s storage.Storage) (identity.Provider, error)

// A TokenStoreFn picks where the tokens of the visitor owning s are kept.
type TokenStoreFn func(w http.ResponseWriter, r *http.Request, s session.Session) (storage.Storage, error)

// A Ranger manages and exposes all components of compass to one another.
type Ranger struct {
	*resp.Responder
	*router.Router

	cfg      config.Config
	ctx      context.Context
	db       *gorm.DB
	l        logger.Logger
	provider ProviderFn
	redis    *redis.Client
	sessions session.SessionStorer
	srv      *http.Server
	tokens   TokenStoreFn
}

// New constructs a *Ranger from cfg and the RangerOptions passed in.
// Components the options leave unset are built from cfg.
//
// When cfg names a database, New connects to it and runs the profile migrations.
func New(cfg config.Config, opts ...RangerOption) (*Ranger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := &Ranger{cfg: cfg}
	for _, opt := range opts {
		if err := opt(rng); err != nil {
			return nil, fmt.Errorf("%w: %s", compass.ErrBadConfig, err)
		}
	}

	if rng.ctx == nil {
		rng.ctx = context.Background()
	}

	if rng.l == nil {
		rng.l = defaultLogger(cfg)
	}

	var err error
	if cfg.UsesRedis() && rng.redis == nil {
		if rng.redis, err = storage.NewRedisClient(cfg.RedisURL, cfg.RedisPassword); err != nil {
			return nil, fmt.Errorf("%w: %s", compass.ErrBadConfig, err)
		}
	}

	if rng.sessions == nil {
		if rng.sessions, err = defaultSessionStore(cfg, rng.redis); err != nil {
			return nil, err
		}
	}

	if rng.tokens == nil {
		rng.tokens = defaultTokenStore(cfg, rng.redis)
	}

	if rng.provider == nil {
		rng.provider = defaultProvider(cfg, rng.l)
	}

	if pg := cfg.Postgres(); rng.db == nil && pg != nil {
		if rng.db, err = postgres.Connect(pg, profile.Migrations, cfg.Env); err != nil {
			return nil, err
		}
	}

	signIn, err := signInURL(cfg, rng.l)
	if err != nil {
		return nil, err
	}

	rng.Responder = defaultResponder(cfg, rng.l)
	if rng.Router, err = rng.defaultRouter(signIn); err != nil {
		return nil, err
	}

	if rng.srv == nil {
		rng.srv = defaultServer(rng.ctx, cfg)
	}
	rng.srv.Handler = rng.Router

	return rng, nil
}

func (rng *Ranger) EmitDB() *gorm.DB                       { return rng.db }
func (rng *Ranger) EmitLogger() logger.Logger              { return rng.l }
func (rng *Ranger) EmitSessionStore() session.SessionStorer { return rng.sessions }

// AuthClient builds the *auth.Client of the visitor making r,
// whose session must already be in r's context.
//
// AuthClient implements middleware.AuthFactory.
func (rng *Ranger) AuthClient(w http.ResponseWriter, r *http.Request) (*auth.Client, error) {
	s, err := rng.Session(r.Context())
	if err != nil {
		return nil, err
	}

	local, err := rng.tokens(w, r, s)
	if err != nil {
		return nil, err
	}

	p, err := rng.provider(local)
	if err != nil {
		return nil, err
	}

	return auth.New(p, local, auth.WithLogger(rng.l)), nil
}

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (rng *Ranger) Guide() error {
	ctx, stop := signal.NotifyContext(rng.ctx, os.Interrupt, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		rng.l.Info(fmt.Sprintf("running web server at %s", rng.srv.Addr), nil)
		if err := rng.srv.ListenAndServe(); err != http.ErrServerClosed {
			errs <- fmt.Errorf("could not listen: %w", err)
		}
	}()

	select {
	case err := <-errs:
		rng.l.Error(err.Error(), nil)
		return err
	case <-ctx.Done():
		rng.l.Info("received shutdown signal", nil)
	}

	return rng.Shutdown()
}

// Shutdown shuts down the web server, then closes the connections it holds.
func (rng *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	rng.l.Info("shutting down web server", nil)
	if err := rng.srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	if rng.redis != nil {
		if err := rng.redis.Close(); err != nil {
			rng.l.Warn("failed closing Redis", &logger.LogContext{Error: err})
		}
	}

	if rng.db != nil {
		if sqlDB, err := rng.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	rng.l.Info("web server shutdown successfully", nil)
	return nil
}
