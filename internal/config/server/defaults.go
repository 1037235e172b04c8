package server

import "github.com/spf13/viper"

func GetServerDefault() BaseServerConfig {
	return BaseServerConfig{
		ShutdownTimeout: "10s",

		Log: LogServerConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogServerRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},

		Metadata: MetadataServerConfig{
			Type: "sqlite",
			SQLite: MetadataSQLiteConfig{
				Path: "clipdex.db",
			},
			Postgres: MetadataPostgresConfig{
				DSN: "",
			},
		},

		Index: IndexServerConfig{
			DegreeBound:         16,
			ConstructionBreadth: 64,
			SearchBreadth:       32,
		},

		Ingest: IngestServerConfig{
			WorkDir:         "ingest/tmp",
			OutputDir:       "ingest/webp",
			Workers:         4,
			BatchSize:       10,
			MaxItems:        0,
			DownloadTimeout: "30s",
			WebPQuality:     80,
			FFmpegPath:      "ffmpeg",
		},
	}
}

func setDefaults() {
	defaults := GetServerDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("metadata.type", defaults.Metadata.Type)
	viper.SetDefault("metadata.sqlite.path", defaults.Metadata.SQLite.Path)
	viper.SetDefault("metadata.postgres.dsn", defaults.Metadata.Postgres.DSN)

	viper.SetDefault("index.degree_bound", defaults.Index.DegreeBound)
	viper.SetDefault("index.construction_breadth", defaults.Index.ConstructionBreadth)
	viper.SetDefault("index.search_breadth", defaults.Index.SearchBreadth)

	viper.SetDefault("ingest.work_dir", defaults.Ingest.WorkDir)
	viper.SetDefault("ingest.output_dir", defaults.Ingest.OutputDir)
	viper.SetDefault("ingest.workers", defaults.Ingest.Workers)
	viper.SetDefault("ingest.batch_size", defaults.Ingest.BatchSize)
	viper.SetDefault("ingest.max_items", defaults.Ingest.MaxItems)
	viper.SetDefault("ingest.download_timeout", defaults.Ingest.DownloadTimeout)
	viper.SetDefault("ingest.webp_quality", defaults.Ingest.WebPQuality)
	viper.SetDefault("ingest.ffmpeg_path", defaults.Ingest.FFmpegPath)
}
