package domain

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the name used for directories, the user agent and telemetry.
	AppName = "lockaudit"

	// ConfigDirName is the name of the per-user configuration directory.
	ConfigDirName = ".lockaudit"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"

	// RecordsDirName is the name of the file cache directory.
	RecordsDirName = "records"

	// DatabaseFileName is the name of the SQLite cache database.
	DatabaseFileName = "cache.db"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCachePath returns the default cache root.
// It joins the user cache directory and lockaudit, falling back to .lockaudit/cache.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(ConfigDirName, "cache")
	}
	return filepath.Join(dir, AppName)
}

// DefaultConfigPath returns the default config file path.
// It joins the home directory, .lockaudit and config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(ConfigDirName, ConfigFileName)
	}
	return filepath.Join(home, ConfigDirName, ConfigFileName)
}

// RecordsPath returns the file cache directory below root.
func RecordsPath(root string) string {
	return filepath.Join(root, RecordsDirName)
}

// DatabasePath returns the SQLite database path below root.
func DatabasePath(root string) string {
	return filepath.Join(root, DatabaseFileName)
}
