package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/store"
)

// Document kinds accepted by the store commands.
const (
	kindGrid = "grid"
	kindTree = "tree"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage stored grids and mind maps",
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeDeleteCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// docKey returns the store key for a kind and name.
func docKey(keys store.Keyer, kind, name string) (string, error) {
	if err := errors.ValidateName(name); err != nil {
		return "", err
	}
	switch kind {
	case kindGrid:
		return keys.GridKey(name), nil
	case kindTree:
		return keys.TreeKey(name), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "kind must be grid or tree, got %q", kind)
}

// storedDoc is one row of store list.
type storedDoc struct {
	kind, name string
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "list [grid|tree]",
		Short:     "List stored documents",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{kindGrid, kindTree},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kinds := []string{kindGrid, kindTree}
			if len(args) == 1 {
				kinds = args
			}

			var docs []storedDoc
			err := c.withStore(ctx, func(s store.Store, keys store.Keyer) error {
				for _, kind := range kinds {
					prefix, kindPrefix := keys.GridKey(""), store.GridPrefix
					if kind == kindTree {
						prefix, kindPrefix = keys.TreeKey(""), store.TreePrefix
					}
					found, err := s.List(ctx, prefix)
					if err != nil {
						return err
					}
					for _, key := range found {
						if name, ok := store.NameFromKey(key, kindPrefix); ok {
							docs = append(docs, storedDoc{kind: kind, name: name})
						}
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			if len(docs) == 0 {
				printInfo("No stored documents")
				printDetail("Backend: %s", c.Config.Store.Backend)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), docTable(docs))
			return nil
		},
	}
}

// docTable renders the listing in the same table style as the grid viewer.
func docTable(docs []storedDoc) string {
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{d.kind, d.name}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Kind", "Name").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return listDimStyle
			}
			return listNormalStyle
		}).
		Render()
}

func (c *CLI) storeGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <grid|tree> <name>",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store, keys store.Keyer) error {
				key, err := docKey(keys, args[0], args[1])
				if err != nil {
					return err
				}
				data, found, err := s.Get(ctx, key)
				if err != nil {
					return err
				}
				if !found {
					return errors.New(errors.ErrCodeNotFound, "%s %q not found", args[0], args[1])
				}
				out := cmd.OutOrStdout()
				if _, err := out.Write(data); err != nil {
					return err
				}
				if !strings.HasSuffix(string(data), "\n") {
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <grid|tree> <name>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(s store.Store, keys store.Keyer) error {
				key, err := docKey(keys, args[0], args[1])
				if err != nil {
					return err
				}
				_, found, err := s.Get(ctx, key)
				if err != nil {
					return err
				}
				if !found {
					printWarning("%s %q does not exist", args[0], args[1])
					return nil
				}
				if err := s.Delete(ctx, key); err != nil {
					return err
				}
				printSuccess("Deleted %s %q", args[0], args[1])
				return nil
			})
		},
	}
}

func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where documents are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Store
			printKeyValue("backend", cfg.Backend)
			switch cfg.Backend {
			case store.BackendFile, "", store.BackendSQLite:
				path := cfg.Dir
				if cfg.Backend == store.BackendSQLite {
					path = cfg.SQLite
				}
				if path == "" {
					dir, err := store.DefaultDir()
					if err != nil {
						return err
					}
					path = dir
					if cfg.Backend == store.BackendSQLite {
						path = filepath.Join(dir, "meldgrid.sqlite")
					}
				}
				printFile(path)
			case store.BackendRedis:
				addr := cfg.Redis.Addr
				if addr == "" {
					addr = "localhost:6379"
				}
				printKeyValue("addr", addr)
				printKeyValue("db", fmt.Sprint(cfg.Redis.DB))
			case store.BackendMongo:
				// The URI may carry credentials.
				printKeyValue("database", cfg.Mongo.Database)
				printKeyValue("collection", cfg.Mongo.Collection)
			case store.BackendNull:
				printDetail("documents are discarded")
			}
			if cfg.Scope != "" {
				printKeyValue("scope", cfg.Scope)
			}
			return nil
		},
	}
}
