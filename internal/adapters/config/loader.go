// Package config loads and persists the lockaudit configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/lockaudit/internal/core/domain"
	"go.trai.ch/lockaudit/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvConfig   = "LOCKAUDIT_CONFIG"
	EnvUsername = "LOCKAUDIT_USERNAME"
	EnvToken    = "LOCKAUDIT_TOKEN"
	EnvBaseURL  = "LOCKAUDIT_BASE_URL"
	EnvCacheDir = "LOCKAUDIT_CACHE_DIR"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	path   string
}

// NewLoader creates a Loader for the file named by LOCKAUDIT_CONFIG,
// or ~/.lockaudit/config.yaml when it is unset.
func NewLoader(logger ports.Logger) *Loader {
	path := os.Getenv(EnvConfig)
	if path == "" {
		path = domain.DefaultConfigPath()
	}
	return NewLoaderAt(logger, path)
}

// NewLoaderAt creates a Loader for the file at path.
func NewLoaderAt(logger ports.Logger, path string) *Loader {
	return &Loader{Logger: logger, path: path}
}

// Path returns the config file location.
func (l *Loader) Path() string {
	return l.path
}

// Load reads the config file, applies environment overrides and defaults,
// and validates the result. A missing file yields the defaults.
func (l *Loader) Load() (*domain.Config, error) {
	file, err := l.read()
	if err != nil {
		return nil, err
	}

	applyEnv(file)

	cfg, err := resolve(file)
	if err != nil {
		return nil, zerr.With(err, "path", l.path)
	}
	return cfg, nil
}

// SaveCredentials stores username and token, keeping every other setting.
// The file is written with owner-only permissions.
func (l *Loader) SaveCredentials(username, token string) error {
	file, err := l.read()
	if err != nil {
		return err
	}

	file.Username = username
	file.Token = token

	data, err := yaml.Marshal(file)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigWriteFailed, err), "path", l.path)
	}

	if err := writeFileAtomic(l.path, data, domain.PrivateFilePerm); err != nil {
		return zerr.With(errors.Join(domain.ErrConfigWriteFailed, err), "path", l.path)
	}
	return nil
}

func (l *Loader) read() (*File, error) {
	file := &File{}

	// #nosec G304 -- path comes from the user's environment
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", l.path)
	}

	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", l.path)
	}

	if file.Token != "" {
		l.warnIfShared()
	}
	return file, nil
}

// warnIfShared warns when a file holding a token is readable by others.
func (l *Loader) warnIfShared() {
	if l.Logger == nil {
		return
	}
	info, err := os.Stat(l.path)
	if err != nil {
		return
	}
	if info.Mode().Perm()&0o077 != 0 {
		l.Logger.Warn(fmt.Sprintf("%s contains a token but is accessible by other users (mode %04o)",
			l.path, info.Mode().Perm()))
	}
}

func applyEnv(file *File) {
	if v := os.Getenv(EnvUsername); v != "" {
		file.Username = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		file.Token = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		file.BaseURL = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		file.Cache.Dir = v
	}
}

func resolve(file *File) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	cfg.Username = file.Username
	cfg.Token = file.Token

	if file.BaseURL != "" {
		u, err := url.Parse(file.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, invalidValue("base_url", file.BaseURL)
		}
		cfg.BaseURL = file.BaseURL
	}

	if file.Timeout != "" {
		d, err := time.ParseDuration(file.Timeout)
		if err != nil || d <= 0 {
			return nil, invalidValue("timeout", file.Timeout)
		}
		cfg.Timeout = d
	}

	switch {
	case file.BatchSize < 0 || file.BatchSize > domain.MaxBatchSize:
		return nil, invalidValue("batch_size", file.BatchSize)
	case file.BatchSize > 0:
		cfg.BatchSize = file.BatchSize
	}

	switch {
	case file.Workers < 0:
		return nil, invalidValue("workers", file.Workers)
	case file.Workers > 0:
		cfg.Workers = file.Workers
	}

	switch backend := domain.CacheBackend(file.Cache.Backend); backend {
	case "":
	case domain.CacheBackendFile, domain.CacheBackendSQLite:
		cfg.Cache.Backend = backend
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownCacheBackend, "unsupported cache.backend"), "backend", file.Cache.Backend)
	}

	if file.Cache.Dir != "" {
		cfg.Cache.Dir = file.Cache.Dir
	}

	return &cfg, nil
}

func invalidValue(key string, value any) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unsupported "+key), key, value)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
