package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
	Catalog       CatalogConfig
	Storefront    StorefrontConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Storefront.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"UTMART_APP_ENV" required:"true"`
	Port         string `envconfig:"UTMART_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"UTMART_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"UTMART_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"UTMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"UTMART_DB_DSN"`
	Driver string `envconfig:"UTMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"UTMART_DB_HOST"`
	LegacyPort     int    `envconfig:"UTMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"UTMART_DB_USER"`
	LegacyPassword string `envconfig:"UTMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"UTMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"UTMART_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"UTMART_SQLITE_PATH" default:"utmart.db"`

	MaxOpenConns    int           `envconfig:"UTMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"UTMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"UTMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"UTMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"UTMART_DB_SLOW_QUERY" default:"200ms"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"UTMART_REDIS_URL"`
	Address      string        `envconfig:"UTMART_REDIS_ADDR"`
	Password     string        `envconfig:"UTMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"UTMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"UTMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"UTMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"UTMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"UTMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"UTMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint has been configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"UTMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"UTMART_JWT_ISSUER" default:"utmart"`
	ExpirationMinutes int    `envconfig:"UTMART_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"UTMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"UTMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"UTMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"UTMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"UTMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"UTMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"UTMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"UTMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"UTMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"UTMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"UTMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"UTMART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"UTMART_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"UTMART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type CatalogConfig struct {
	APIURL string `envconfig:"UTMART_CATALOG_API_URL" default:"http://localhost:5000/api"`
}

type StorefrontConfig struct {
	Port        string        `envconfig:"UTMART_STOREFRONT_PORT" default:"3000"`
	CartStorage string        `envconfig:"UTMART_CART_STORAGE" default:"memory"`
	StorageDir  string        `envconfig:"UTMART_CART_STORAGE_DIR" default:"./.cart-storage"`
	SessionTTL  time.Duration `envconfig:"UTMART_SESSION_TTL" default:"168h"`
	CookieName  string        `envconfig:"UTMART_SESSION_COOKIE" default:"utmart_session"`
}

func (s StorefrontConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.CartStorage)) {
	case CartStorageMemory, CartStorageFile, CartStorageRedis:
		return nil
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s", EnvCartStorage, CartStorageMemory, CartStorageFile, CartStorageRedis)
	}
}

// StorageBackend returns the normalized cart storage backend name.
func (s StorefrontConfig) StorageBackend() string {
	return strings.ToLower(strings.TrimSpace(s.CartStorage))
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
	}
	if db.IsSQLite() {
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
