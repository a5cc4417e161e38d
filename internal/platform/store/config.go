package store

import (
	"time"

	"atelier/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG    PGConfig
	Redis RedisConfig
	Blob  BlobConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// Guard/boot knobs:
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// RedisConfig configures redis connectivity; disabled means process memory
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Prefix   string // key namespace, e.g. "atelier:"
}

// BlobConfig selects and configures the media store
type BlobConfig struct {
	Enabled bool
	Driver  string // "s3" or "local"

	// s3
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool

	// local
	Dir string

	// PublicBaseURL is where objects are served from; empty presigns for s3
	PublicBaseURL string
	PresignTTL    time.Duration
}

// FromConfig reads the backend settings every binary shares
// SERVICE_PGSQL_DBURL enables postgres, SERVICE_REDIS_ADDR enables redis and
// SERVICE_BLOB_DRIVER (s3, local or none) picks the media store
func FromConfig(root config.Conf, appName string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	rd := root.Prefix("SERVICE_REDIS_")
	bl := root.Prefix("SERVICE_BLOB_")

	cfg := Config{
		AppName: appName,
		PG: PGConfig{
			URL:         pg.MayString("DBURL", ""),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
		Redis: RedisConfig{
			Addr:     rd.MayString("ADDR", ""),
			Password: rd.MayString("PASSWORD", ""),
			DB:       rd.MayInt("DB", 0),
			Prefix:   rd.MayString("PREFIX", appName+":"),
		},
		Blob: BlobConfig{
			Driver:        bl.MayEnum("DRIVER", "local", "s3", "local", "none"),
			Bucket:        bl.MayString("BUCKET", ""),
			Region:        bl.MayString("REGION", "us-east-1"),
			Endpoint:      bl.MayString("ENDPOINT", ""),
			AccessKey:     bl.MayString("ACCESS_KEY", ""),
			SecretKey:     bl.MayString("SECRET_KEY", ""),
			PathStyle:     bl.MayBool("PATH_STYLE", false),
			Dir:           bl.MayString("DIR", "./data/blobs"),
			PublicBaseURL: bl.MayString("PUBLIC_BASE_URL", ""),
			PresignTTL:    bl.MayDuration("PRESIGN_TTL", time.Hour),
		},
	}
	cfg.PG.Enabled = cfg.PG.URL != ""
	cfg.Redis.Enabled = cfg.Redis.Addr != ""
	cfg.Blob.Enabled = cfg.Blob.Driver != "none"
	if cfg.Blob.Driver == "local" && cfg.Blob.PublicBaseURL == "" {
		cfg.Blob.PublicBaseURL = "/files"
	}
	return cfg
}
