package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Log      LogConfig
	Storage  StorageConfig
	Minio    MinioConfig
	S3       S3Config
	Upload   FileUploadConfig
	Expiry   ExpiryConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Server   ServerConfig
	Worker   WorkerConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

// WorkerConfig holds the settings of the background job worker
type WorkerConfig struct {
	MetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

// StorageConfig selects the object store implementation: minio or s3
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"minio"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME" default:"documents"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	// PublicURL overrides the scheme and host of stored object urls
	PublicURL string `envconfig:"MINIO_PUBLIC_URL"`
}

type S3Config struct {
	Region          string `envconfig:"AWS_REGION" default:"eu-central-1"`
	BucketName      string `envconfig:"AWS_S3_BUCKET"`
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	Endpoint        string `envconfig:"AWS_S3_ENDPOINT"`
	UsePathStyle    bool   `envconfig:"AWS_S3_USE_PATH_STYLE" default:"false"`
}

type FileUploadConfig struct {
	ChunkSize      int64         `envconfig:"UPLOAD_CHUNK_SIZE" default:"5242880"`       // 5MiB
	MaxFileSize    int64         `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"104857600"` // 100MiB
	SessionTTL     time.Duration `envconfig:"UPLOAD_SESSION_TTL" default:"24h"`
	DownloadURLTTL time.Duration `envconfig:"UPLOAD_DOWNLOAD_URL_TTL" default:"1h"`
	ReapSchedule   string        `envconfig:"UPLOAD_REAP_SCHEDULE" default:"0 */15 * * * *"`
	PurgeAfter     time.Duration `envconfig:"UPLOAD_PURGE_AFTER" default:"168h"`
}

type ExpiryConfig struct {
	ReminderWindow time.Duration `envconfig:"EXPIRY_REMINDER_WINDOW" default:"168h"`
	SweepSchedule  string        `envconfig:"EXPIRY_SWEEP_SCHEDULE" default:"0 0 9 * * *"`
}

type NATSConfig struct {
	URL           string `envconfig:"NATS_URL" required:"true"`
	StreamName    string `envconfig:"NATS_STREAM_NAME" default:"DOCUMENT_JOBS"`
	ConsumerName  string `envconfig:"NATS_CONSUMER_NAME" default:"document-worker"`
	SubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"jobs.documents"`
	DeliverGroup  string `envconfig:"NATS_DELIVER_GROUP"`
	// MaxDeliver must stay above the number of backoff steps
	MaxDeliver   int             `envconfig:"NATS_MAX_DELIVER" default:"5"`
	RetryBackoff []time.Duration `envconfig:"NATS_RETRY_BACKOFF" default:"1s,5s,30s"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the fields required by the selected storage driver
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "minio":
		if c.Minio.Endpoint == "" || c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
			return errors.New("minio driver requires MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
		}
	case "s3":
		if c.S3.BucketName == "" {
			return errors.New("s3 driver requires AWS_S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Upload.ChunkSize <= 0 || c.Upload.MaxFileSize <= 0 {
		return errors.New("upload chunk size and max file size must be positive")
	}

	if c.NATS.MaxDeliver <= len(c.NATS.RetryBackoff) {
		return fmt.Errorf("NATS_MAX_DELIVER must exceed the %d backoff steps", len(c.NATS.RetryBackoff))
	}
	return nil
}
