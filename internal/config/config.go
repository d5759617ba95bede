package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const devSecret = "dev-insecure-secret-change-me-now"

type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	AdminUsername     string `mapstructure:"admin_username"`
	AdminPassword     string `mapstructure:"admin_password"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"`

	SessionSecret string `mapstructure:"session_secret"`
	SessionMaxAge int    `mapstructure:"session_max_age"`
	HTTPS         bool   `mapstructure:"app_https"`

	StorageRoot string `mapstructure:"storage_root"`
	PublicDir   string `mapstructure:"public_dir"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`

	StoreBackend string         `mapstructure:"store_backend"`
	DatabaseURL  string         `mapstructure:"database_url"`
	Postgres     PostgresConfig `mapstructure:",squash"`
}

// PostgresConfig — разрозненные POSTGRES_* переменные, если нет DATABASE_URL.
type PostgresConfig struct {
	Host     string `mapstructure:"postgres_host"`
	Port     string `mapstructure:"postgres_port"`
	User     string `mapstructure:"postgres_user"`
	Password string `mapstructure:"postgres_password"`
	Name     string `mapstructure:"postgres_db"`
	SSLMode  string `mapstructure:"postgres_sslmode"`
}

var defaults = map[string]any{
	"host":                "0.0.0.0",
	"port":                3000,
	"admin_username":      "",
	"admin_password":      "",
	"admin_password_hash": "",
	"session_secret":      "",
	"session_max_age":     7 * 24 * 60 * 60, // 7 дней
	"app_https":           false,
	"storage_root":        ".",
	"public_dir":          "public",
	"max_upload_mb":       20,
	"store_backend":       "json",
	"database_url":        "",
	"postgres_host":       "127.0.0.1",
	"postgres_port":       "5432",
	"postgres_user":       "postgres",
	"postgres_password":   "",
	"postgres_db":         "portfolio",
	"postgres_sslmode":    "disable",
}

// Load читает config.yaml (необязательный) и переменные окружения.
// Окружение всегда важнее файла: ADMIN_USERNAME, PORT, STORAGE_ROOT и т.д.
// Пустой path — искать config.yaml в текущей директории; отсутствие файла не ошибка.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "json", "postgres":
	default:
		return fmt.Errorf("config: unknown store_backend %q (want json or postgres)", c.StoreBackend)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("config: max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	return nil
}

// Addr — адрес для http.Server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Secret возвращает секрет сессий и признак того, что взят dev-fallback.
func (c *Config) Secret() (string, bool) {
	if c.SessionSecret == "" {
		return devSecret, true
	}
	return c.SessionSecret, false
}

func (c *Config) UploadsDir() string { return filepath.Join(c.StorageRoot, "uploads") }
func (c *Config) DataDir() string    { return filepath.Join(c.StorageRoot, "data") }
func (c *Config) SessionDir() string { return filepath.Join(c.StorageRoot, "sessions") }

func (c *Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }
