package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Sync         SyncConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	BigQuery     BigQueryConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Sync.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CREATORSTATS_APP_ENV" required:"true"`
	Port         string `envconfig:"CREATORSTATS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CREATORSTATS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CREATORSTATS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CREATORSTATS_DB_DSN"`
	Driver string `envconfig:"CREATORSTATS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CREATORSTATS_DB_HOST"`
	LegacyPort     int    `envconfig:"CREATORSTATS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CREATORSTATS_DB_USER"`
	LegacyPassword string `envconfig:"CREATORSTATS_DB_PASSWORD"`
	LegacyName     string `envconfig:"CREATORSTATS_DB_NAME"`
	LegacySSLMode  string `envconfig:"CREATORSTATS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CREATORSTATS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CREATORSTATS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CREATORSTATS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CREATORSTATS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CREATORSTATS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CREATORSTATS_REDIS_ADDR"`
	Password     string        `envconfig:"CREATORSTATS_REDIS_PASSWORD"`
	DB           int           `envconfig:"CREATORSTATS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CREATORSTATS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CREATORSTATS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CREATORSTATS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CREATORSTATS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CREATORSTATS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SyncConfig controls the analytics sync pipeline.
type SyncConfig struct {
	// ExposeChannelGross controls whether channel-level snapshots carry the
	// gross revenue figure. Gross stays on owner snapshots regardless.
	ExposeChannelGross bool `envconfig:"CREATORSTATS_SYNC_EXPOSE_CHANNEL_GROSS" default:"false"`
	// TopContentLimit caps the topContent breakdown per snapshot.
	TopContentLimit int `envconfig:"CREATORSTATS_SYNC_TOP_CONTENT_LIMIT" default:"20"`
	// SnapshotCacheTTL bounds staleness of the redis snapshot read cache.
	SnapshotCacheTTL time.Duration `envconfig:"CREATORSTATS_SYNC_SNAPSHOT_CACHE_TTL" default:"5m"`
	// MaxUploadMB limits the accepted export file size.
	MaxUploadMB int `envconfig:"CREATORSTATS_SYNC_MAX_UPLOAD_MB" default:"50"`
}

func (s SyncConfig) validate() error {
	if s.TopContentLimit <= 0 {
		return fmt.Errorf("%s_SYNC_TOP_CONTENT_LIMIT must be positive", EnvPrefix)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CREATORSTATS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CREATORSTATS_AUTO_MIGRATE" default:"false"`
	// ArchiveRows toggles the BigQuery raw usage-row archive.
	ArchiveRows bool `envconfig:"CREATORSTATS_ARCHIVE_ROWS" default:"false"`
	// PublishSyncNotices toggles pubsub completion notices.
	PublishSyncNotices bool `envconfig:"CREATORSTATS_PUBLISH_SYNC_NOTICES" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CREATORSTATS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CREATORSTATS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CREATORSTATS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type BigQueryConfig struct {
	Dataset       string `envconfig:"CREATORSTATS_BIGQUERY_DATASET" default:"creatorstats"`
	UsageRowTable string `envconfig:"CREATORSTATS_BIGQUERY_USAGE_ROW_TABLE" default:"usage_rows"`
}

type PubSubConfig struct {
	SyncNoticeTopic string `envconfig:"CREATORSTATS_PUBSUB_SYNC_NOTICE_TOPIC" default:"creatorstats-sync-notices"`
}

func (db *DBConfig) ensureDSN() error {
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
