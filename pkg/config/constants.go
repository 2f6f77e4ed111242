package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "CREATORSTATS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "CREATORSTATS_APP_ENV"
	EnvPort     = "CREATORSTATS_APP_PORT"
	EnvRedisURL = "CREATORSTATS_REDIS_URL"

	EnvDBDSN  = "CREATORSTATS_DB_DSN"
	EnvDBHost = "CREATORSTATS_DB_HOST"
	EnvDBUser = "CREATORSTATS_DB_USER"
	EnvDBName = "CREATORSTATS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
