package ranger

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/config"
	"github.com/xy-planning-network/compass/http/handler"
	"github.com/xy-planning-network/compass/http/middleware"
	"github.com/xy-planning-network/compass/http/resp"
	"github.com/xy-planning-network/compass/http/router"
	"github.com/xy-planning-network/compass/http/session"
	"github.com/xy-planning-network/compass/http/template"
	"github.com/xy-planning-network/compass/http/view"
	"github.com/xy-planning-network/compass/identity"
	"github.com/xy-planning-network/compass/identity/gotrue"
	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/profile"
	"github.com/xy-planning-network/compass/storage"
)

// apiPrefix is where the JSON endpoints are routed under.
const apiPrefix = "/api"

// defaultLogger constructs the logger.Logger used throughout compass.
// When SENTRY_DSN is set, errors are also reported to Sentry.
func defaultLogger(cfg config.Config) logger.Logger {
	l := logger.NewLogger(logger.WithEnv(cfg.Env.String()), logger.WithLevel(cfg.LogLevel))
	l.Debug("setting up app logger", nil)

	return l
}

// defaultSessionStore constructs the SessionStorer visitor sessions are kept in,
// backed by cookies or, per cfg.SessionStore, by the Redis server client connects to.
func defaultSessionStore(cfg config.Config, client *redis.Client) (session.SessionStorer, error) {
	sc := session.Config{
		AuthKey:     cfg.SessionAuthKey,
		EncryptKey:  cfg.SessionEncryptKey,
		Env:         cfg.Env,
		SessionName: cfg.SessionName,
	}

	args := []session.ServiceOpt{session.WithMaxAge(cfg.SessionMaxAge)}
	if cfg.SessionStore == config.RedisStore {
		opts := client.Options()
		args = append(args, session.WithRedis(opts.Addr, opts.Password))
	} else {
		args = append(args, session.WithCookie())
	}

	return session.NewStoreService(sc, args...)
}

// defaultTokenStore keeps a visitor's tokens, under a prefix naming the visitor,
// in Redis or in memory per cfg.TokenStore.
// Only Redis sessions hold the tokens themselves.
func defaultTokenStore(cfg config.Config, client *redis.Client) TokenStoreFn {
	if cfg.TokenStore == config.SessionStore {
		return func(w http.ResponseWriter, r *http.Request, s session.Session) (storage.Storage, error) {
			return s.Storage(w, r), nil
		}
	}

	ttl := time.Duration(cfg.SessionMaxAge) * time.Second
	newStore := func(id string) storage.Storage { return storage.NewRedis(client, cfg.SessionName+":"+id, ttl) }
	if cfg.TokenStore != config.RedisStore {
		mem := storage.NewExpiringMap(ttl)
		newStore = func(id string) storage.Storage { return storage.Prefix(mem, id+":") }
	}

	return func(w http.ResponseWriter, r *http.Request, s session.Session) (storage.Storage, error) {
		id, err := s.VisitorID(w, r)
		if err != nil {
			return nil, err
		}

		return newStore(id), nil
	}
}

// defaultProvider constructs each visitor's identity.Provider as a client of the Supabase auth server.
func defaultProvider(cfg config.Config, l logger.Logger) ProviderFn {
	gc := gotrueConfig(cfg)
	return func(s storage.Storage) (identity.Provider, error) {
		c, err := gotrue.New(gc, gotrue.WithStorage(s), gotrue.WithLogger(l))
		if err != nil {
			return nil, err
		}

		return c, nil
	}
}

func gotrueConfig(cfg config.Config) gotrue.Config {
	return gotrue.Config{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey, JWTSecret: cfg.SupabaseJWTSecret}
}

// signInURL builds where the landing page sends visitors to sign in,
// returning them to the callback page and, from there, to the chatbot.
func signInURL(cfg config.Config, l logger.Logger) (string, error) {
	c, err := gotrue.New(gotrueConfig(cfg), gotrue.WithLogger(l))
	if err != nil {
		return "", err
	}

	return c.SignInURL(cfg.OAuthProvider, cfg.CallbackURL(view.CallbackPath, router.ChatbotPath)), nil
}

// defaultParser constructs the template.Parser HTML responses are rendered with.
//
// defaultParser makes available these functions in an HTML template:
//
//   - "env"
//   - "isDevelopment"
//   - "isProduction"
//   - "nonce"
//   - "rootUrl"
//   - "currentUser"
func defaultParser(env compass.Environment) *template.Parse {
	return template.NewParser(
		template.WithFn(template.Env(env)),
		template.WithFn("isDevelopment", env.IsDevelopment),
		template.WithFn("isProduction", env.IsProduction),
		template.WithFn(template.Nonce()),
	)
}

// defaultResponder configures the *resp.Responder used by every http.Handler.
func defaultResponder(cfg config.Config, l logger.Logger) *resp.Responder {
	return resp.NewResponder(
		resp.WithErrTemplate(template.ErrorTmpl),
		resp.WithLayoutTemplate(template.LayoutTmpl),
		resp.WithLogger(l),
		resp.WithParser(defaultParser(cfg.Env)),
		resp.WithRootUrl(cfg.BaseURL.String()),
	)
}

// defaultMiddlewares are applied to every request, in order.
func (rng *Ranger) defaultMiddlewares() []middleware.Adapter {
	return []middleware.Adapter{
		middleware.ReportPanic(rng.cfg.Env),
		middleware.RateLimit(middleware.NewVisitors()),
		middleware.ForceHTTPS(rng.cfg.Env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(rng.l),
		middleware.CORS(strings.TrimSuffix(rng.cfg.BaseURL.String(), "/")),
		middleware.InjectSession(rng.sessions),
		middleware.InjectAuth(rng.AuthClient, rng.l),
	}
}

// defaultRouter routes the pages, form posts and JSON endpoints of compass.
func (rng *Ranger) defaultRouter(signInURL string) (*router.Router, error) {
	var profiles profile.Store
	if rng.db != nil {
		profiles = profile.NewDB(rng.db)
	}

	guard := func(main bool) middleware.Adapter { return middleware.Guard(rng.Responder, rng.l, main) }
	rt := router.New(rng.cfg.Env, router.WithGuard(guard), router.WithLogRequest(middleware.LogRequest(rng.l)))
	rt.OnEveryRequest(rng.defaultMiddlewares()...)

	views := view.New(rng.Responder, signInURL, view.WithLogger(rng.l), view.WithProfiles(profiles))
	handlers := handler.New(
		rng.Responder,
		handler.WithLogger(rng.l),
		handler.WithProfiles(profiles),
		handler.WithWorker(rng.cfg.WorkerURL),
	)

	for _, routes := range [][]router.Route{views.Routes(), handlers.Routes()} {
		if err := rt.HandleRoutes(routes); err != nil {
			return nil, err
		}
	}

	if err := rt.Subrouter(apiPrefix).HandleRoutes(handlers.APIRoutes()); err != nil {
		return nil, err
	}

	base := rng.cfg.BaseURL.Path
	rt.HandleNotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Accept"), "text/html") && r.URL.Path != base {
			rng.Redirect(w, r, resp.ToRoot())
			return
		}

		w.WriteHeader(http.StatusNotFound)
	})

	return rt, nil
}

// defaultServer constructs the *http.Server listening on cfg.Addr.
func defaultServer(ctx context.Context, cfg config.Config) *http.Server {
	srv := &http.Server{
		Addr:         cfg.Addr,
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
