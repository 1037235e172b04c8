package server

// MetadataServerConfig selects and configures the relational store backend.
type MetadataServerConfig struct {
	Type     string                 `mapstructure:"type"     yaml:"type"`
	SQLite   MetadataSQLiteConfig   `mapstructure:"sqlite"   yaml:"sqlite"`
	Postgres MetadataPostgresConfig `mapstructure:"postgres" yaml:"postgres"`
}

// MetadataSQLiteConfig holds SQLite-specific configuration
type MetadataSQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// MetadataPostgresConfig holds Postgres-specific configuration. The target
// database needs the pgvector extension available.
type MetadataPostgresConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}
