package config

import (
	"fmt"
	"net/url"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	Mode           string   `mapstructure:"mode" yaml:"mode"`
	BaseURL        string   `mapstructure:"base_url" yaml:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects one of the mysql, postgres or sqlite drivers.
// For sqlite, Database is the file path (":memory:" is accepted).
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" yaml:"driver"`
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port"`
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"-"`
	Database        string `mapstructure:"database" yaml:"database"`
	SSLMode         string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	switch d.Driver {
	case "postgres":
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.Username, d.Password, d.Database, sslMode)
	case "sqlite":
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.Username, url.QueryEscape(d.Password), d.Host, d.Port, d.Database)
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret" yaml:"-"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes" yaml:"access_exp_minutes"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port" yaml:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user" yaml:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password" yaml:"-"`
	FromAddress  string `mapstructure:"from_address" yaml:"from_address"`
	FromName     string `mapstructure:"from_name" yaml:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Password string `mapstructure:"password" yaml:"-"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StorageConfig describes the local blob store. MaxUploadSize is a human
// size string such as "25MB".
type StorageConfig struct {
	Root              string `mapstructure:"root" yaml:"root"`
	MaxUploadSize     string `mapstructure:"max_upload_size" yaml:"max_upload_size"`
	URLSecret         string `mapstructure:"url_secret" yaml:"-"`
	DownloadURLExpiry int    `mapstructure:"download_url_expiry" yaml:"download_url_expiry"`
	PreviewURLExpiry  int    `mapstructure:"preview_url_expiry" yaml:"preview_url_expiry"`
}

func (s *StorageConfig) DownloadTTL() time.Duration {
	return time.Duration(s.DownloadURLExpiry) * time.Second
}

func (s *StorageConfig) PreviewTTL() time.Duration {
	return time.Duration(s.PreviewURLExpiry) * time.Second
}

type RealtimeConfig struct {
	Channel         string  `mapstructure:"channel" yaml:"channel"`
	MaxConnsPerUser int     `mapstructure:"max_conns_per_user" yaml:"max_conns_per_user"`
	SendBuffer      int     `mapstructure:"send_buffer" yaml:"send_buffer"`
	HandshakeRPS    float64 `mapstructure:"handshake_rps" yaml:"handshake_rps"`
	HandshakeBurst  int     `mapstructure:"handshake_burst" yaml:"handshake_burst"`
}

type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Limit   int  `mapstructure:"limit" yaml:"limit"`
	Window  int  `mapstructure:"window" yaml:"window"`
}

type SchedulerConfig struct {
	Enabled            bool `mapstructure:"enabled" yaml:"enabled"`
	SLAScanMinutes     int  `mapstructure:"sla_scan_minutes" yaml:"sla_scan_minutes"`
	OrphanSweepMinutes int  `mapstructure:"orphan_sweep_minutes" yaml:"orphan_sweep_minutes"`
	OrphanGraceMinutes int  `mapstructure:"orphan_grace_minutes" yaml:"orphan_grace_minutes"`
}
