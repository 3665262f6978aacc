package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultDBPassword is the development password used when DB_PASSWORD is unset.
const DefaultDBPassword = "123123"

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Relay    RelayConfig
	Metrics  MetricsConfig
}

// AppConfig holds HTTP server settings
type AppConfig struct {
	Env  string
	Host string
	Port int
}

// Addr returns the host:port the server binds to
func (a AppConfig) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// DatabaseConfig holds database connection and bootstrap settings
type DatabaseConfig struct {
	Connection      string
	Username        string
	Password        string
	Host            string
	Port            int
	Name            string
	AdminName       string
	SSLMode         string
	CreateIfMissing bool
	// BootstrapStrict makes a failed create-database step fatal.
	BootstrapStrict bool
	MigrateOnStart  bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// RelayConfig holds settings of the external OCR webhook
type RelayConfig struct {
	URL           string
	Token         string
	Timeout       time.Duration
	MaxUploadSize int64
}

// MetricsConfig holds prometheus endpoint settings
type MetricsConfig struct {
	Enabled bool
}

// LoadEnvFile loads variables from a .env file if one exists. A missing file is not an error.
func LoadEnvFile(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading env file: %w", err)
	}
	return nil
}

// Load reads the configuration from environment variables, falling back to defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	connMaxLifetime, err := durationSetting(v, "db.conn.max.lifetime")
	if err != nil {
		return nil, err
	}
	relayTimeout, err := durationSetting(v, "relay.timeout")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("app.env"),
			Host: v.GetString("app.host"),
			Port: v.GetInt("app.port"),
		},
		Database: DatabaseConfig{
			Connection:      v.GetString("db.connection"),
			Username:        v.GetString("db.username"),
			Password:        v.GetString("db.password"),
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			Name:            v.GetString("db.database"),
			AdminName:       v.GetString("db.admin.database"),
			SSLMode:         v.GetString("db.sslmode"),
			CreateIfMissing: v.GetBool("db.create.if.missing"),
			BootstrapStrict: v.GetBool("db.bootstrap.strict"),
			MigrateOnStart:  v.GetBool("db.migrate.on.start"),
			MaxOpenConns:    v.GetInt("db.max.open.conns"),
			MaxIdleConns:    v.GetInt("db.max.idle.conns"),
			ConnMaxLifetime: connMaxLifetime,
			LogLevel:        v.GetString("db.log.level"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Relay: RelayConfig{
			URL:           v.GetString("relay.url"),
			Token:         v.GetString("relay.token"),
			Timeout:       relayTimeout,
			MaxUploadSize: v.GetInt64("upload.max.memory"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// durationSetting parses a duration that must carry a unit ("30s", "5m").
// A bare number would otherwise be read as nanoseconds; only "0" is allowed without a unit.
func durationSetting(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" || raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		return 0, fmt.Errorf("invalid %s %q: expected a duration with a unit such as 30s", envKey, raw)
	}
	return d, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "127.0.0.1")
	v.SetDefault("app.port", 8000)

	v.SetDefault("db.connection", "postgresql")
	v.SetDefault("db.username", "postgres")
	v.SetDefault("db.password", DefaultDBPassword)
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.database", "ocr_db")
	v.SetDefault("db.admin.database", "postgres")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.create.if.missing", true)
	v.SetDefault("db.bootstrap.strict", true)
	v.SetDefault("db.migrate.on.start", true)
	v.SetDefault("db.max.open.conns", 10)
	v.SetDefault("db.max.idle.conns", 5)
	v.SetDefault("db.conn.max.lifetime", 30*time.Minute)
	v.SetDefault("db.log.level", "warn")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("relay.url", "")
	v.SetDefault("relay.token", "")
	v.SetDefault("relay.timeout", time.Duration(0))
	v.SetDefault("upload.max.memory", int64(32<<20))

	v.SetDefault("metrics.enabled", true)
}

// Validate checks the loaded configuration for values the server cannot run with
func (c *Config) Validate() error {
	switch c.Database.Connection {
	case "postgresql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_CONNECTION %q: only postgresql is supported", c.Database.Connection)
	}
	if c.Database.Name == "" {
		return errors.New("DB_DATABASE is required")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT %d", c.App.Port)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid DB_PORT %d", c.Database.Port)
	}
	if c.Relay.Timeout < 0 {
		return fmt.Errorf("invalid RELAY_TIMEOUT %s", c.Relay.Timeout)
	}
	return nil
}

// UsesDefaultPassword reports whether the database password is the built-in development one
func (d DatabaseConfig) UsesDefaultPassword() bool {
	return d.Password == DefaultDBPassword
}

// DSN returns the connection URL of the application database
func (d DatabaseConfig) DSN() string {
	return d.dsnFor(d.Name)
}

// AdminDSN returns the connection URL of the administrative database
func (d DatabaseConfig) AdminDSN() string {
	return d.dsnFor(d.AdminName)
}

func (d DatabaseConfig) dsnFor(dbName string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.Username, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + dbName,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
	}
	return u.String()
}
