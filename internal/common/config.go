package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	AWS      AWSConfig
	S3       S3Config
	Database DatabaseConfig
	Pipeline PipelineConfig
}

// AWSConfig holds AWS client configuration
type AWSConfig struct {
	Region string
}

// S3Config holds object storage configuration
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN         string
	MaxConns    int
	DialTimeout time.Duration
}

// PipelineConfig holds analysis pipeline tuning knobs
type PipelineConfig struct {
	PollInterval    time.Duration
	PageFetchPause  time.Duration
	ArtifactDir     string
	DefaultCurrency string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		AWS: AWSConfig{
			Region: getEnv("AWS_REGION", "us-east-1"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Prefix:    getEnv("S3_PREFIX", "uploads/"),
			UseSSL:    getEnvAsBool("S3_USE_SSL", true),
		},
		Database: DatabaseConfig{
			DSN:         getEnv("DB_URL", ""),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 10),
			DialTimeout: getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Pipeline: PipelineConfig{
			PollInterval:    getEnvAsDuration("TEXTRACT_POLL_INTERVAL", 2*time.Second),
			PageFetchPause:  getEnvAsDuration("TEXTRACT_PAGE_PAUSE", 200*time.Millisecond),
			ArtifactDir:     getEnv("ARTIFACT_DIR", "./artifacts"),
			DefaultCurrency: getEnv("DEFAULT_CURRENCY", "USD"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.S3.Bucket == "" {
		return NewAppError("CONFIG_ERROR", "S3_BUCKET is required", ErrInvalidInput)
	}
	if c.AWS.Region == "" {
		return NewAppError("CONFIG_ERROR", "AWS_REGION is required", ErrInvalidInput)
	}
	if c.Pipeline.PollInterval <= 0 {
		return NewAppError("CONFIG_ERROR", "TEXTRACT_POLL_INTERVAL must be positive", ErrInvalidInput)
	}
	v := NewValidator()
	v.Field("DEFAULT_CURRENCY", c.Pipeline.DefaultCurrency, CurrencyCode)
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrValidation)
	}
	return nil
}
