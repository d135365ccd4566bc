package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"pictag/internal/adapters/editor"
	"pictag/internal/application/commands"
)

var reindexAfterEdit bool

var editTreeCmd = &cobra.Command{
	Use:   "edit-tree",
	Short: "Open the tag tree file in $EDITOR",
	Long: `Open the tag tree file in $VISUAL or $EDITOR. The edited file is
loaded back to check it, and with --reindex the picture index is rebuilt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := GetCatalog()
		path := env.Tree.Path()

		// Give the editor something to start from
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := catalog.Save(); err != nil {
				return err
			}
		}
		if err := editor.NewOpener().OpenFile(path); err != nil {
			return err
		}

		if err := catalog.Reload(); err != nil {
			return fmt.Errorf("edited tree does not load: %w", err)
		}
		fmt.Printf("Loaded %d nodes from %s\n", catalog.Ontology().Len(), path)

		if !reindexAfterEdit {
			return nil
		}
		result, err := commands.NewReindexCommand(catalog, nil).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	editTreeCmd.Flags().BoolVar(&reindexAfterEdit, "reindex", false, "complete and reindex every picture afterwards")
	rootCmd.AddCommand(editTreeCmd)
}
