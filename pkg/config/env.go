package config

// EnvPrefix is empty because every field declares its fully-qualified variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CartStorageMemory = "memory"
	CartStorageFile   = "file"
	CartStorageRedis  = "redis"
)

const (
	EnvAppEnv      = "UTMART_APP_ENV"
	EnvPort        = "UTMART_APP_PORT"
	EnvLogLevel    = "UTMART_LOG_LEVEL"
	EnvDBDSN       = "UTMART_DB_DSN"
	EnvDBDriver    = "UTMART_DB_DRIVER"
	EnvDBHost      = "UTMART_DB_HOST"
	EnvDBUser      = "UTMART_DB_USER"
	EnvDBName      = "UTMART_DB_NAME"
	EnvDBPassword  = "UTMART_DB_PASSWORD"
	EnvRedisURL    = "UTMART_REDIS_URL"
	EnvJWTSecret   = "UTMART_JWT_SECRET"
	EnvJWTIssuer   = "UTMART_JWT_ISSUER"
	EnvJWTExpMins  = "UTMART_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite   = "UTMART_USE_SQLITE"
	EnvCatalogURL  = "UTMART_CATALOG_API_URL"
	EnvCartStorage = "UTMART_CART_STORAGE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
