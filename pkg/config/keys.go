package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "rockshoes"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Cart snapshot store backends.
const (
	StoreBackendRedis = "redis"
	StoreBackendSQL   = "sql"
)

const (
	EnvAppEnv           = "ROCKSHOES_APP_ENV"
	EnvPort             = "ROCKSHOES_APP_PORT"
	EnvRedisURL         = "ROCKSHOES_REDIS_URL"
	EnvInventoryBaseURL = "ROCKSHOES_INVENTORY_BASE_URL"
	EnvCartStoreBackend = "ROCKSHOES_CART_STORE_BACKEND"
)

const (
	EnvDBDSN  = "ROCKSHOES_DB_DSN"
	EnvDBHost = "ROCKSHOES_DB_HOST"
	EnvDBUser = "ROCKSHOES_DB_USER"
	EnvDBName = "ROCKSHOES_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
