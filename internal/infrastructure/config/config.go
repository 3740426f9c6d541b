package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/customerly-inc/customerly/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server" yaml:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	JWT       sharedConfig.JWTConfig       `mapstructure:"jwt" yaml:"jwt"`
	Email     sharedConfig.EmailConfig     `mapstructure:"email" yaml:"email"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis" yaml:"redis"`
	Storage   sharedConfig.StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Realtime  sharedConfig.RealtimeConfig  `mapstructure:"realtime" yaml:"realtime"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit" yaml:"ratelimit"`
	Scheduler sharedConfig.SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Timezone  string                       `mapstructure:"timezone" yaml:"timezone"`
}

// MaxUploadBytes parses storage.max_upload_size ("25MB", "512KiB").
func (c *Config) MaxUploadBytes() (int64, error) {
	raw := strings.TrimSpace(c.Storage.MaxUploadSize)
	if raw == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid storage.max_upload_size %q: %w", raw, err)
	}
	return int64(n), nil
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml, then .env, then CUSTOMERLY_* variables.
// An empty path searches the usual config directories.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("CUSTOMERLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := config.MaxUploadBytes(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.database", "customerly.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_exp_minutes", 60)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.from_address", "support@customerly.local")
	v.SetDefault("email.from_name", "Customerly Support")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.root", "./data/attachments")
	v.SetDefault("storage.max_upload_size", "25MB")
	v.SetDefault("storage.url_secret", "change-me-in-production")
	v.SetDefault("storage.download_url_expiry", 60)
	v.SetDefault("storage.preview_url_expiry", 300)

	v.SetDefault("realtime.channel", "customerly:ticket_changes")
	v.SetDefault("realtime.max_conns_per_user", 5)
	v.SetDefault("realtime.send_buffer", 64)
	v.SetDefault("realtime.handshake_rps", 2)
	v.SetDefault("realtime.handshake_burst", 5)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.limit", 120)
	v.SetDefault("ratelimit.window", 60)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.sla_scan_minutes", 5)
	v.SetDefault("scheduler.orphan_sweep_minutes", 60)
	v.SetDefault("scheduler.orphan_grace_minutes", 1440)

	v.SetDefault("timezone", "UTC")
}
