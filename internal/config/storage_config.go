package config

// StorageConfig controls on-disk snapshot history and the SQLite change log.
type StorageConfig struct {
	// DataDir holds per-target snapshot history and fetch metadata.
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
	// DatabasePath is the SQLite change-log database file.
	DatabasePath string `json:"database_path,omitempty" yaml:"database_path,omitempty"`
}

// NewDefaultStorageConfig creates a StorageConfig with default values
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		DataDir:      DefaultDataDir,
		DatabasePath: DefaultDatabasePath,
	}
}
