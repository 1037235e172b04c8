package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clipdex/clipdex/internal/agent"
	config "github.com/clipdex/clipdex/internal/config/server"
	"github.com/clipdex/clipdex/pkg/db/store"
)

func NewTaxonomyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Manage the descriptive taxonomy",
		Long:  "Manage the hierarchical property taxonomy and list, create or remove properties and their values.",
	}

	cmd.AddCommand(NewTaxonomyListCommand())
	cmd.AddCommand(NewTaxonomyAddPropertyCommand())
	cmd.AddCommand(NewTaxonomyAddValueCommand())
	cmd.AddCommand(NewTaxonomyRemoveCommand())

	return cmd
}

// openStore connects and migrates the configured metadata store for a
// one-shot command.
func openStore(ctx context.Context) (*store.GormStore, error) {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load server configuration: %w", err)
	}

	s, err := agent.NewMetadataStore(cfg.Metadata)
	if err != nil {
		return nil, err
	}
	if err := s.Connect(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to connect metadata store: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to migrate metadata store: %w", err)
	}
	return s, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func NewTaxonomyListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the taxonomy forest",
		Long:  "List all root properties with their values and immediate children.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			nodes, err := s.ListTaxonomy(ctx)
			if err != nil {
				return err
			}

			for _, node := range nodes {
				printTaxonomyNode(node, "")
			}
			return nil
		},
	}

	return cmd
}

func printTaxonomyNode(node store.TaxonomyNode, indent string) {
	fmt.Printf("%s[%d] %s\n", indent, node.Property.ID, node.Property.Name)
	for _, value := range node.Values {
		fmt.Printf("%s  - (%d) %s\n", indent, value.ID, value.Value)
	}
	for _, child := range node.Children {
		printTaxonomyNode(child, indent+"  ")
	}
}

func NewTaxonomyAddPropertyCommand() *cobra.Command {
	var parentID uint
	var displayOrder int

	cmd := &cobra.Command{
		Use:   "add-property <name>",
		Short: "Create a taxonomy property",
		Long:  "Create a new property, optionally nested under an existing parent.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			var parent *uint
			if parentID > 0 {
				parent = &parentID
			}

			prop, err := s.CreateProperty(ctx, args[0], parent, displayOrder)
			if err != nil {
				return err
			}

			fmt.Printf("Created property %q with id %d\n", prop.Name, prop.ID)
			return nil
		},
	}

	cmd.Flags().UintVarP(&parentID, "parent", "p", 0, "id of the parent property (0 for a root)")
	cmd.Flags().IntVarP(&displayOrder, "order", "o", 0, "display order among siblings")

	return cmd
}

func NewTaxonomyAddValueCommand() *cobra.Command {
	var displayOrder int

	cmd := &cobra.Command{
		Use:   "add-value <property-id> <value>",
		Short: "Add a value to a property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			propertyID, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid property id %q", args[0])
			}

			ctx := commandContext(cmd)
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			pv, err := s.CreatePropertyValue(ctx, uint(propertyID), args[1], displayOrder)
			if err != nil {
				return err
			}

			fmt.Printf("Created value %q with id %d\n", pv.Value, pv.ID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&displayOrder, "order", "o", 0, "display order among siblings")

	return cmd
}

func NewTaxonomyRemoveCommand() *cobra.Command {
	var removeValue bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a property or value",
		Long:  "Remove a property (its children become roots, its values and tags are deleted) or, with --value, a single property value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			ctx := commandContext(cmd)
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if removeValue {
				if err := s.DeletePropertyValue(ctx, uint(id)); err != nil {
					return err
				}
				fmt.Printf("Removed value %d\n", id)
				return nil
			}

			if err := s.DeleteProperty(ctx, uint(id)); err != nil {
				return err
			}
			fmt.Printf("Removed property %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&removeValue, "value", "v", false, "remove a property value instead of a property")

	return cmd
}
