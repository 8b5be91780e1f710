package config

import "time"

type Config struct {
	App         AppConfig      `env-prefix:"APP_"`
	HTTP        HTTPConfig     `env-prefix:"HTTP_"`
	MetricsHTTP MetricsConfig  `env-prefix:"METRICS_HTTP_"`
	GRPC        GRPCConfig     `env-prefix:"GRPC_"`
	Database    DatabaseConfig `env-prefix:"DB_"`
}

type AppConfig struct {
	LogLevel     string `env:"LOG_LEVEL" env-default:"info"`
	Pretty       bool   `env:"PRETTY" env-default:"false"`
	DefaultLimit int    `env:"DEFAULT_LIMIT" env-default:"10"`
	MaxLimit     int    `env:"MAX_LIMIT" env-default:"100"`
}

type HTTPConfig struct {
	Addr           string   `env:"ADDR" env-default:":8081"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-default:"http://localhost:5173" env-separator:","`
	RateLimit      float64  `env:"RATE_LIMIT" env-default:"100"`
	RateBurst      int      `env:"RATE_BURST" env-default:"200"`
}

type MetricsConfig struct {
	Addr string `env:"ADDR" env-default:":9090"`
}

type GRPCConfig struct {
	Addr             string        `env:"ADDR" env-default:":50051"`
	KeepaliveTime    time.Duration `env:"KEEPALIVE_TIME" env-default:"60s"`
	KeepaliveTimeout time.Duration `env:"KEEPALIVE_TIMEOUT" env-default:"30s"`
	MaxConnIdle      time.Duration `env:"MAX_CONN_IDLE" env-default:"5m"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver   string `env:"DRIVER" env-default:"postgres"`
	Port     string `env:"PORT" env-default:"5432"`
	Host     string `env:"HOST" env-default:"localhost"`
	Name     string `env:"NAME" env-default:"notes"`
	User     string `env:"USER" env-default:"user"`
	Password string `env:"PASSWORD"`

	// Path is the SQLite database file.
	Path string `env:"PATH" env-default:"notes.db"`

	RetryAttempts   uint          `env:"RETRY_ATTEMPTS" env-default:"3"`
	MaxConns        int32         `env:"MAX_CONNS" env-default:"5"`
	MonitorInterval time.Duration `env:"MONITOR_INTERVAL" env-default:"5s"`
}

// Addr returns the PostgreSQL host:port pair.
func (c DatabaseConfig) Addr() string {
	return c.Host + ":" + c.Port
}
