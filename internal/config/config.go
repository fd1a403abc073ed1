package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/movie-collector/internal/persist"
)

// ErrMissingAPIKey is returned when a download run has no catalog API key.
var ErrMissingAPIKey = eris.New("config: missing API key (set API_KEY or COLLECTOR_TMDB_API_KEY)")

// Config holds the full application configuration.
type Config struct {
	TMDB      TMDBConfig      `yaml:"tmdb" mapstructure:"tmdb"`
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	EnvFile   string          `yaml:"env_file" mapstructure:"env_file"`
}

// TMDBConfig configures the movie catalog API.
type TMDBConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	FirstID     int    `yaml:"first_id" mapstructure:"first_id"`
	LastID      int    `yaml:"last_id" mapstructure:"last_id"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// DataConfig configures where tables are persisted.
type DataConfig struct {
	Root   string `yaml:"root" mapstructure:"root"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig configures the run history database.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// WarehouseConfig configures the Postgres load target.
type WarehouseConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Schema      string `yaml:"schema" mapstructure:"schema"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file, environment and the dotenv file.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COLLECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("tmdb.api_key", "COLLECTOR_TMDB_API_KEY", "API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind api key")
	}
	if err := v.BindEnv("warehouse.database_url", "COLLECTOR_WAREHOUSE_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, eris.Wrap(err, "config: bind database url")
	}

	// Defaults
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.first_id", 1)
	v.SetDefault("tmdb.last_id", 1000)
	v.SetDefault("tmdb.user_agent", "movie-collector/1.0")
	v.SetDefault("tmdb.timeout_secs", 0)
	v.SetDefault("data.root", "data")
	v.SetDefault("data.format", "csv")
	v.SetDefault("store.sqlite_path", "data/runs.db")
	v.SetDefault("warehouse.schema", "public")
	v.SetDefault("warehouse.table", "imdb_prepared")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("env_file", ".env")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.TMDB.APIKey == "" && cfg.EnvFile != "" {
		key, err := readEnvFileKey(cfg.EnvFile, "API_KEY")
		if err != nil {
			return nil, err
		}
		cfg.TMDB.APIKey = key
	}

	return &cfg, nil
}

// readEnvFileKey returns one key from a KEY=value file. A missing file yields "".
func readEnvFileKey(path, key string) (string, error) {
	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return "", nil
		}
		return "", eris.Wrapf(err, "config: read env file %s", path)
	}
	return ev.GetString(key), nil
}

// RequireAPIKey fails when no catalog API key was configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Validate checks settings that are wrong regardless of run mode.
func (c *Config) Validate() error {
	if _, err := persist.ParseFormat(c.Data.Format); err != nil {
		return eris.Wrap(err, "config: data.format")
	}
	if c.TMDB.FirstID > c.TMDB.LastID {
		return eris.Errorf("config: tmdb.first_id (%d) must not exceed tmdb.last_id (%d)", c.TMDB.FirstID, c.TMDB.LastID)
	}
	if c.TMDB.TimeoutSecs < 0 {
		return eris.Errorf("config: tmdb.timeout_secs must be >= 0, got %d", c.TMDB.TimeoutSecs)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
