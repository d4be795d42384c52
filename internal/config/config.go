package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/zlog"
)

// DefaultMaxPixels is roughly a 50 MP image.
const DefaultMaxPixels int64 = 50_000_000

type Config struct {
	Worker     WorkerConfig     `mapstructure:"worker"`
	RabbitMQ   RabbitMQConfig   `mapstructure:"rabbitmq"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Migrations MigrationsConfig `mapstructure:"migrations"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type WorkerConfig struct {
	Count              int `mapstructure:"count"`
	Prefetch           int `mapstructure:"prefetch"`
	MaxAttempts        int `mapstructure:"max_attempts"`
	RetryDelaySec      int `mapstructure:"retry_delay_sec"`
	ProcessTimeoutSec  int `mapstructure:"process_timeout_sec"`
	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec"`
	StartupDelaySec    int `mapstructure:"startup_delay_sec"`
}

type RabbitMQConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	VHost    string `mapstructure:"vhost"`

	Exchange             string `mapstructure:"exchange"`
	Queue                string `mapstructure:"queue"`
	UploadedRoutingKey   string `mapstructure:"uploaded_routing_key"`
	CompressedRoutingKey string `mapstructure:"compressed_routing_key"`
	DeadLetterExchange   string `mapstructure:"dead_letter_exchange"`
	DeadLetterQueue      string `mapstructure:"dead_letter_queue"`
	RetryQueue           string `mapstructure:"retry_queue"`
	ReconnectDelaySec    int    `mapstructure:"reconnect_delay_sec"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"`
	LocalPath string `mapstructure:"local_path"`

	S3Host      string `mapstructure:"s3_host"`
	S3Port      int    `mapstructure:"s3_port"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3UseSSL    bool   `mapstructure:"s3_use_ssl"`
	PartSizeMB  int    `mapstructure:"part_size_mb"`
}

type ProcessingConfig struct {
	MaxWidth           int   `mapstructure:"max_width"`
	MaxHeight          int   `mapstructure:"max_height"`
	SizeThresholdBytes int64 `mapstructure:"size_threshold_bytes"`
	JPEGQuality        int   `mapstructure:"jpeg_quality"`
	PNGColors          int   `mapstructure:"png_colors"`
	// MaxPixels caps both the decoded source and the resize target.
	MaxPixels int64 `mapstructure:"max_pixels"`
}

type DatabaseConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	DSN                  string `mapstructure:"dsn"`
	Slaves               string `mapstructure:"slaves"`
	MaxOpenConns         int    `mapstructure:"max_open_conns"`
	MaxIdleConns         int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSec   int    `mapstructure:"conn_max_lifetime_sec"`
	ConnectRetries       int    `mapstructure:"connect_retries"`
	ConnectRetryDelaySec int    `mapstructure:"connect_retry_delay_sec"`
}

type MigrationsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type ServerConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Addr               string `mapstructure:"addr"`
	ReadTimeoutSec     int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec    int    `mapstructure:"write_timeout_sec"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Endpoint returns host:port for the object store.
func (c StorageConfig) Endpoint() string {
	if c.S3Port == 0 {
		return c.S3Host
	}
	return net.JoinHostPort(c.S3Host, strconv.Itoa(c.S3Port))
}

// URL builds the AMQP connection string.
func (c RabbitMQConfig) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + url.PathEscape(c.VHost),
	}
	if c.VHost == "/" || c.VHost == "" {
		u.Path = "/"
	}
	return u.String()
}

// ReplicaDSNs splits the comma-separated replica list, dropping blanks.
func (c DatabaseConfig) ReplicaDSNs() []string {
	var out []string
	for _, dsn := range strings.Split(c.Slaves, ",") {
		if dsn = strings.TrimSpace(dsn); dsn != "" {
			out = append(out, dsn)
		}
	}
	return out
}

func Load(path string) (*Config, error) {
	cfg := config.New()

	configPath := path
	if configPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			configPath = "config.yaml"
		} else if _, err := os.Stat("/app/config.yaml"); err == nil {
			configPath = "/app/config.yaml"
		} else {
			return nil, fmt.Errorf("config.yaml not found")
		}
	}

	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = ""
	}

	if err := cfg.Load(configPath, envPath, "APP"); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appConfig := &Config{}
	if err := cfg.Unmarshal(appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(appConfig)

	if err := validateConfig(appConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	zlog.Logger.Info().
		Int("workers", appConfig.Worker.Count).
		Int("prefetch", appConfig.Worker.Prefetch).
		Str("rabbitmq_host", appConfig.RabbitMQ.Host).
		Str("queue", appConfig.RabbitMQ.Queue).
		Str("storage_type", appConfig.Storage.Type).
		Str("bucket", appConfig.Storage.S3Bucket).
		Bool("ledger", appConfig.Database.Enabled).
		Msg("Config loaded successfully via wbf")

	return appConfig, nil
}

func applyDefaults(cfg *Config) {
	w := &cfg.Worker
	if w.Count <= 0 {
		w.Count = 10
	}
	if w.Prefetch <= 0 {
		w.Prefetch = 2
	}
	if w.MaxAttempts <= 0 {
		w.MaxAttempts = 3
	}
	if w.RetryDelaySec <= 0 {
		w.RetryDelaySec = 30
	}
	if w.ProcessTimeoutSec <= 0 {
		w.ProcessTimeoutSec = 120
	}
	if w.ShutdownTimeoutSec <= 0 {
		w.ShutdownTimeoutSec = 30
	}

	r := &cfg.RabbitMQ
	if r.Host == "" {
		r.Host = "localhost"
	}
	if r.Port == 0 {
		r.Port = 5672
	}
	if r.User == "" {
		r.User = "guest"
	}
	if r.Password == "" {
		r.Password = "guest"
	}
	if r.VHost == "" {
		r.VHost = "/"
	}
	if r.Exchange == "" {
		r.Exchange = "media_events"
	}
	if r.Queue == "" {
		r.Queue = "image-processing"
	}
	if r.UploadedRoutingKey == "" {
		r.UploadedRoutingKey = "media.uploaded"
	}
	if r.CompressedRoutingKey == "" {
		r.CompressedRoutingKey = "media.compressed"
	}
	if r.DeadLetterExchange == "" {
		r.DeadLetterExchange = r.Exchange + ".dlx"
	}
	if r.DeadLetterQueue == "" {
		r.DeadLetterQueue = r.Queue + ".dead"
	}
	if r.RetryQueue == "" {
		r.RetryQueue = r.Queue + ".retry"
	}
	if r.ReconnectDelaySec <= 0 {
		r.ReconnectDelaySec = 10
	}

	s := &cfg.Storage
	if s.Type == "" {
		s.Type = "s3"
	}
	if s.S3Bucket == "" {
		s.S3Bucket = "media-service"
	}
	if s.PartSizeMB <= 0 {
		s.PartSizeMB = 5
	}

	p := &cfg.Processing
	if p.MaxWidth <= 0 {
		p.MaxWidth = 1920
	}
	if p.MaxHeight <= 0 {
		p.MaxHeight = 1080
	}
	if p.SizeThresholdBytes <= 0 {
		p.SizeThresholdBytes = 1 << 20
	}
	if p.JPEGQuality <= 0 {
		p.JPEGQuality = 75
	}
	if p.PNGColors <= 0 {
		p.PNGColors = 256
	}
	if p.MaxPixels <= 0 {
		p.MaxPixels = DefaultMaxPixels
	}

	d := &cfg.Database
	if d.MaxOpenConns <= 0 {
		d.MaxOpenConns = 5
	}
	if d.ConnectRetries <= 0 {
		d.ConnectRetries = 15
	}
	if d.ConnectRetryDelaySec <= 0 {
		d.ConnectRetryDelaySec = 3
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8081"
	}
	if cfg.Server.ReadTimeoutSec <= 0 {
		cfg.Server.ReadTimeoutSec = 10
	}
	if cfg.Server.WriteTimeoutSec <= 0 {
		cfg.Server.WriteTimeoutSec = 10
	}
	if cfg.Server.ShutdownTimeoutSec <= 0 {
		cfg.Server.ShutdownTimeoutSec = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// validateConfig checks structural values only. Broker and storage endpoints
// fail at connection time.
func validateConfig(cfg *Config) error {
	// Worker
	if cfg.Worker.Prefetch > 4 {
		return fmt.Errorf("worker.prefetch must be between 1 and 4")
	}
	if cfg.Worker.StartupDelaySec < 0 {
		return fmt.Errorf("worker.startup_delay_sec must be non-negative")
	}

	// Storage
	if cfg.Storage.Type != "local" && cfg.Storage.Type != "s3" {
		return fmt.Errorf("storage.type must be 'local' or 's3'")
	}
	if cfg.Storage.Type == "local" && cfg.Storage.LocalPath == "" {
		return fmt.Errorf("storage.local_path is required for local storage")
	}

	// Processing
	if cfg.Processing.JPEGQuality > 100 {
		return fmt.Errorf("processing.jpeg_quality must be between 1 and 100")
	}
	if cfg.Processing.PNGColors > 256 {
		return fmt.Errorf("processing.png_colors must be between 1 and 256")
	}

	// Database
	if cfg.Database.Enabled && cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when database.enabled is set")
	}
	if cfg.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns must be non-negative")
	}

	return nil
}
