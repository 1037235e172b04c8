package server

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipdex/clipdex/internal/agent"
	config "github.com/clipdex/clipdex/internal/config/server"
)

func NewAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Start the Clipdex catalog agent",
		Long:  "Start the long-running catalog agent: it connects the metadata store, rebuilds the similarity index from the stored embeddings and serves until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load server configuration: %w", err)
			}

			agent := agent.NewAgent(cfg)
			if err := agent.Serve(context.Background()); err != nil {
				return err
			}

			return nil
		},
	}

	return cmd
}
