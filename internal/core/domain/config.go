package domain

import "time"

// CacheBackend selects the Cache Store implementation.
type CacheBackend string

const (
	// CacheBackendFile stores one JSON file per coordinate.
	CacheBackendFile CacheBackend = "file"
	// CacheBackendSQLite stores all records in a single SQLite database.
	CacheBackendSQLite CacheBackend = "sqlite"
)

const (
	// DefaultBaseURL is the OSS Index API root.
	DefaultBaseURL = "https://ossindex.sonatype.org"

	// DefaultTimeout bounds a single remote request.
	DefaultTimeout = 30 * time.Second

	// DefaultWorkers keeps batch dispatch sequential.
	DefaultWorkers = 1
)

// CacheConfig configures the Cache Store.
type CacheConfig struct {
	Backend CacheBackend
	Dir     string
}

// Config is the resolved user configuration.
type Config struct {
	Username  string
	Token     string
	BaseURL   string
	Timeout   time.Duration
	BatchSize int
	Workers   int
	Cache     CacheConfig
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		BatchSize: MaxBatchSize,
		Workers:   DefaultWorkers,
		Cache: CacheConfig{
			Backend: CacheBackendFile,
			Dir:     DefaultCachePath(),
		},
	}
}

// HasCredentials reports whether both username and token are set.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Token != ""
}
