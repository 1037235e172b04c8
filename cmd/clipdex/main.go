package main

import (
	"fmt"
	"os"

	"github.com/clipdex/clipdex/cmd/clipdex/cli"
	"github.com/clipdex/clipdex/cmd/clipdex/cli/client"
	"github.com/clipdex/clipdex/cmd/clipdex/cli/server"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewVersionCommand())

	root.AddCommand(server.NewAgentCommand())
	root.AddCommand(server.NewConfigCommand())

	root.AddCommand(client.NewIngestCommand())
	root.AddCommand(client.NewTaxonomyCommand())

	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
