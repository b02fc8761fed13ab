package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Source   SourceConfig   `mapstructure:"source" validate:"required"`
	Ingest   IngestConfig   `mapstructure:"ingest" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// SourceConfig contains settings for the external image catalog.
type SourceConfig struct {
	// BaseURL is the root of the catalog API, e.g. https://api.thecatapi.com/v1.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// APIKey is sent as the x-api-key header when non-empty. The catalog
	// serves unauthenticated requests at a reduced rate, so this is optional.
	APIKey string `mapstructure:"api_key"`

	// FetchLimit is the number of candidate records requested per
	// ingestion run.
	FetchLimit int `mapstructure:"fetch_limit" validate:"required,gt=0,lte=100"`

	// RequestTimeoutSeconds bounds each individual HTTP call to the catalog.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// IngestConfig contains settings for the background ingestion runner.
type IngestConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
}
