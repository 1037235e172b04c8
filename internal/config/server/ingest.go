package server

// IngestServerConfig holds the ingestion pipeline settings.
type IngestServerConfig struct {
	// WorkDir receives temporary downloads; cleared per run.
	WorkDir string `mapstructure:"work_dir" yaml:"work_dir"`
	// OutputDir receives the transcoded WebP previews, addressed by name.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	Workers   int `mapstructure:"workers"    yaml:"workers"`
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
	// MaxItems caps how many manifest entries one run processes; 0 means all.
	MaxItems int `mapstructure:"max_items" yaml:"max_items"`

	// DownloadTimeout bounds each network call, e.g. "30s".
	DownloadTimeout string `mapstructure:"download_timeout" yaml:"download_timeout"`
	WebPQuality     int    `mapstructure:"webp_quality"     yaml:"webp_quality"`
	FFmpegPath      string `mapstructure:"ffmpeg_path"      yaml:"ffmpeg_path"`
}
