package config

// Environment variable names, kept in one place for tests and deploy docs.
const (
	EnvAppEnv        = "FUNDRAISER_APP_ENV"
	EnvPort          = "FUNDRAISER_APP_PORT"
	EnvLogLevel      = "FUNDRAISER_LOG_LEVEL"
	EnvJWTSecret     = "FUNDRAISER_JWT_SECRET"
	EnvJWTIssuer     = "FUNDRAISER_JWT_ISSUER"
	EnvJWTExpMins    = "FUNDRAISER_JWT_EXPIRATION_MINUTES"
	EnvAdminPassword = "FUNDRAISER_ADMIN_PASSWORD"
	EnvRedisURL      = "FUNDRAISER_REDIS_URL"
	EnvJournalDriver = "FUNDRAISER_JOURNAL_DRIVER"
	EnvJournalDSN    = "FUNDRAISER_JOURNAL_DSN"
)
