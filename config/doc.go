/*
Package config reads the configuration of compass from its environment.

Environment variables ought to be set in a file called ".env"
found at the same directory compass is executed from.
Variables already set in the environment take precedence over the file.

Here are the available environment variables.
  - BASE_URL: the base URL compass runs on; replaces HOST & PORT
  - DATABASE_URL: the connection string for the Postgres database profiles are saved to; optional
  - DATABASE_TEST_URL: replaces DATABASE_URL in the TESTING environment
  - ENVIRONMENT: the environment compass is running in; default: DEVELOPMENT; cf. [compass.Environment]
  - HOST: the host compass is running on; default: localhost
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - OAUTH_PROVIDER: the provider visitors sign in with; default: google
  - PORT: the port compass listens on; default: :3000
  - REDIS_URL: the Redis server sessions or tokens are stored in, e.g., redis://localhost:6379/0
  - REDIS_PASSWORD: overrides the password of REDIS_URL
  - SENTRY_DSN: the DSN errors are reported to; optional
  - SERVER_IDLE_TIMEOUT: cf. [time.ParseDuration]; default: 120s
  - SERVER_READ_TIMEOUT: cf. [time.ParseDuration]; default: 5s
  - SERVER_WRITE_TIMEOUT: cf. [time.ParseDuration]; default: 30s
  - SESSION_AUTH_KEY: a hex-encoded key for authenticating cookies; cf. [encoding/hex]
  - SESSION_ENCRYPTION_KEY: a hex-encoded key for encrypting cookies; cf. [encoding/hex]
  - SESSION_MAX_AGE: seconds a session lives; default: one week
  - SESSION_NAME: the name of the session cookie; default: compass
  - SESSION_STORE: "cookie" or "redis"; default: cookie
  - SUPABASE_JWT_SECRET: verifies the signature of access tokens; optional
  - SUPABASE_KEY: the project's anon key
  - SUPABASE_URL: the project URL, e.g., https://abcdefgh.supabase.co
  - TOKEN_STORE: "memory", "redis" or "session", where a visitor's tokens are kept; default: memory.
    "session" requires SESSION_STORE=redis, "memory" keeps tokens in the server process only.
  - WORKER_URL: the backend /api requests are forwarded to; optional
*/
package config
