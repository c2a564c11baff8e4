package config

// File is the on-disk shape of config.yaml.
type File struct {
	Username  string    `yaml:"username,omitempty"`
	Token     string    `yaml:"token,omitempty"`
	BaseURL   string    `yaml:"base_url,omitempty"`
	Timeout   string    `yaml:"timeout,omitempty"`
	BatchSize int       `yaml:"batch_size,omitempty"`
	Workers   int       `yaml:"workers,omitempty"`
	Cache     CacheFile `yaml:"cache,omitempty"`
}

// CacheFile is the cache section of config.yaml.
type CacheFile struct {
	Backend string `yaml:"backend,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}
