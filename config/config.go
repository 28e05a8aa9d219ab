package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/postgres"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"
	logLevelEnvVar    = "LOG_LEVEL"

	// Web server defaults
	BaseURLEnvVar             = "BASE_URL"
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 30 * time.Second

	// Identity provider
	supabaseURLEnvVar       = "SUPABASE_URL"
	supabaseKeyEnvVar       = "SUPABASE_KEY"
	supabaseJWTSecretEnvVar = "SUPABASE_JWT_SECRET"
	oauthProviderEnvVar     = "OAUTH_PROVIDER"
	defaultOAuthProvider    = "google"

	// Backend the /api routes forward to
	workerURLEnvVar = "WORKER_URL"

	// Session defaults
	sessionNameEnvVar       = "SESSION_NAME"
	defaultSessionName      = "compass"
	SessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"
	sessionMaxAgeEnvVar     = "SESSION_MAX_AGE"
	defaultSessionMaxAge    = 3600 * 24 * 7
	sessionStoreEnvVar      = "SESSION_STORE"
	tokenStoreEnvVar        = "TOKEN_STORE"
	redisURLEnvVar          = "REDIS_URL"
	redisPassEnvVar         = "REDIS_PASSWORD"

	// Database
	dbURLEnvVar     = "DATABASE_URL"
	dbTestURLEnvVar = "DATABASE_TEST_URL"
)

// Stores backing a visitor's session or tokens.
const (
	CookieStore  = "cookie"
	MemoryStore  = "memory"
	RedisStore   = "redis"
	SessionStore = "session"
)

// A Config holds everything compass reads from its environment.
type Config struct {
	Env      compass.Environment
	LogLevel logger.LogLevel

	BaseURL      *url.URL
	Addr         string
	ReadTimeout  time.Duration
	IdleTimeout  time.Duration
	WriteTimeout time.Duration

	SupabaseURL       string
	SupabaseKey       string
	SupabaseJWTSecret string
	OAuthProvider     string

	// WorkerURL is nil when no backend is configured.
	WorkerURL *url.URL

	SessionName       string
	SessionAuthKey    string
	SessionEncryptKey string
	SessionMaxAge     int

	// SessionStore is CookieStore or RedisStore.
	SessionStore string

	// TokenStore is MemoryStore, RedisStore or, with Redis sessions, SessionStore.
	TokenStore    string
	RedisURL      string
	RedisPassword string

	// DatabaseURL is empty when answers are only kept in the visitor's session.
	DatabaseURL string
}

// Load reads the files at paths, ".env" when none are given, into the environment
// and builds a Config from it.
//
// Files that do not exist are skipped; variables already set are not overwritten.
func Load(paths ...string) (Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: loading %s: %s", compass.ErrBadConfig, p, err)
		}
	}

	return FromEnv(), nil
}

// FromEnv builds a Config from the process environment, applying defaults.
func FromEnv() Config {
	port := compass.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	host := compass.EnvVarOrString(hostEnvVar, DefaultHost)
	base := compass.EnvVarOrURL(BaseURLEnvVar, "http://"+host+port)
	if base != nil && base.Path == "" {
		base.Path = "/"
	}

	var worker *url.URL
	if raw := os.Getenv(workerURLEnvVar); raw != "" {
		worker, _ = url.ParseRequestURI(raw)
	}

	env := compass.EnvVarOrEnv(environmentEnvVar, compass.Development)
	dbURL := os.Getenv(dbURLEnvVar)
	if env.IsTesting() {
		dbURL = os.Getenv(dbTestURLEnvVar)
	}

	return Config{
		Env:      env,
		LogLevel: compass.EnvVarOrLogLevel(logLevelEnvVar, logger.LogLevelInfo),

		BaseURL:      base,
		Addr:         port,
		ReadTimeout:  compass.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		IdleTimeout:  compass.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		WriteTimeout: compass.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),

		SupabaseURL:       os.Getenv(supabaseURLEnvVar),
		SupabaseKey:       os.Getenv(supabaseKeyEnvVar),
		SupabaseJWTSecret: os.Getenv(supabaseJWTSecretEnvVar),
		OAuthProvider:     compass.EnvVarOrString(oauthProviderEnvVar, defaultOAuthProvider),

		WorkerURL: worker,

		SessionName:       compass.EnvVarOrString(sessionNameEnvVar, defaultSessionName),
		SessionAuthKey:    os.Getenv(SessionAuthKeyEnvVar),
		SessionEncryptKey: os.Getenv(SessionEncryptKeyEnvVar),
		SessionMaxAge:     compass.EnvVarOrInt(sessionMaxAgeEnvVar, defaultSessionMaxAge),
		SessionStore:      strings.ToLower(compass.EnvVarOrString(sessionStoreEnvVar, CookieStore)),
		TokenStore:        strings.ToLower(compass.EnvVarOrString(tokenStoreEnvVar, MemoryStore)),
		RedisURL:          os.Getenv(redisURLEnvVar),
		RedisPassword:     os.Getenv(redisPassEnvVar),

		DatabaseURL: dbURL,
	}
}

// Validate asserts the Config can run compass, returning an ErrBadConfig naming the first problem found.
func (c Config) Validate() error {
	if err := c.Env.Valid(); err != nil {
		return fmt.Errorf("%w: %s %q", compass.ErrBadConfig, environmentEnvVar, c.Env)
	}

	if c.BaseURL == nil {
		return fmt.Errorf("%w: %s is not a valid URL", compass.ErrBadConfig, BaseURLEnvVar)
	}

	required := []struct{ key, val string }{
		{supabaseURLEnvVar, c.SupabaseURL},
		{supabaseKeyEnvVar, c.SupabaseKey},
		{SessionAuthKeyEnvVar, c.SessionAuthKey},
		{SessionEncryptKeyEnvVar, c.SessionEncryptKey},
	}
	for _, r := range required {
		if r.val == "" {
			return fmt.Errorf("%w: %s is required", compass.ErrBadConfig, r.key)
		}
	}

	if _, err := url.ParseRequestURI(c.SupabaseURL); err != nil {
		return fmt.Errorf("%w: %s is not a valid URL", compass.ErrBadConfig, supabaseURLEnvVar)
	}

	for _, k := range []struct{ key, val string }{
		{SessionAuthKeyEnvVar, c.SessionAuthKey},
		{SessionEncryptKeyEnvVar, c.SessionEncryptKey},
	} {
		if _, err := hex.DecodeString(k.val); err != nil {
			return fmt.Errorf("%w: %s is not hex encoded", compass.ErrBadConfig, k.key)
		}
	}

	switch c.SessionStore {
	case CookieStore, RedisStore:
	default:
		return fmt.Errorf("%w: %s %q", compass.ErrBadConfig, sessionStoreEnvVar, c.SessionStore)
	}

	switch c.TokenStore {
	case MemoryStore, RedisStore:
	case SessionStore:
		// NOTE(dlk): a provider session alone nears the 4096 byte cap on cookies.
		if c.SessionStore == CookieStore {
			return fmt.Errorf("%w: %s %q cannot hold tokens in cookie sessions", compass.ErrBadConfig, tokenStoreEnvVar, c.TokenStore)
		}
	default:
		return fmt.Errorf("%w: %s %q", compass.ErrBadConfig, tokenStoreEnvVar, c.TokenStore)
	}

	if c.UsesRedis() && c.RedisURL == "" {
		return fmt.Errorf("%w: %s is required when storing in Redis", compass.ErrBadConfig, redisURLEnvVar)
	}

	return nil
}

// UsesRedis asserts whether sessions or tokens are stored in Redis.
func (c Config) UsesRedis() bool {
	return c.SessionStore == RedisStore || c.TokenStore == RedisStore
}

// Postgres constructs the *postgres.CxnConfig for DatabaseURL,
// or nil when no database is configured.
func (c Config) Postgres() *postgres.CxnConfig {
	if c.DatabaseURL == "" {
		return nil
	}

	return &postgres.CxnConfig{IsTestDB: c.Env.IsTesting(), URL: c.DatabaseURL}
}

// CallbackURL is the absolute URL the identity provider sends visitors back to after signing in.
func (c Config) CallbackURL(callbackPath, next string) string {
	u := c.BaseURL.ResolveReference(&url.URL{Path: callbackPath})
	if next != "" {
		u.RawQuery = url.Values{"next": {next}}.Encode()
	}

	return u.String()
}
