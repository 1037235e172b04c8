package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipdex/clipdex/internal/agent"
	config "github.com/clipdex/clipdex/internal/config/server"
	"github.com/clipdex/clipdex/internal/ingest"
	"github.com/clipdex/clipdex/pkg/log"
)

func NewIngestCommand() *cobra.Command {
	var manifest string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run the ingestion pipeline over a manifest",
		Long:  "Download, transcode and catalog the videos listed in a JSON manifest. Reruns are idempotent: entries whose source URL is already cataloged are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load server configuration: %w", err)
			}

			logger := log.NewLoggerService("ingest", cfg.Log)

			s, err := agent.NewMetadataStore(cfg.Metadata)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if err := s.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect metadata store: %w", err)
			}
			if err := s.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate metadata store: %w", err)
			}

			pipeline := ingest.New(s, nil, cfg.Ingest, logger)
			summary, err := pipeline.Run(ctx, manifest)
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d entries: uploaded=%d skipped=%d malformed=%d download-failed=%d transcode-failed=%d\n",
				summary.Processed, summary.Uploaded, summary.SkippedDuplicate,
				summary.Malformed, summary.DownloadFailed, summary.TranscodeFailed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "videos.json", "path to the JSON ingestion manifest")

	return cmd
}
