package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pictag/internal/adapters/pixiv"
	"pictag/internal/application/commands"
)

// maxOpen caps how many browser tabs --open may spawn
const maxOpen = 10

var (
	searchExclude []string
	searchOpen    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <tag>...",
	Short: "Find pictures carrying every given tag",
	Long: `Find pictures carrying every given tag and none of the excluded ones.

A tag matches pictures tagged with it, any tag below it in the tree, or
any of their synonyms.

Examples:
  pictag-cli search '#東方' '#少女'
  pictag-cli search '#東方' --exclude '#R-18' --open`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewSearchCommand(GetCatalog(), args, searchExclude).Execute(context.Background())
		if err != nil {
			return err
		}

		for _, pid := range result.PIDs {
			fmt.Println(pid)
		}
		fmt.Println(result.Message)

		if !searchOpen {
			return nil
		}
		web := pixiv.NewOpener("")
		for i, pid := range result.PIDs {
			if i == maxOpen {
				fmt.Printf("Opened the first %d pictures\n", maxOpen)
				break
			}
			if err := web.OpenArtwork(pid); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSliceVarP(&searchExclude, "exclude", "x", nil, "tags to exclude (repeatable or comma-separated)")
	searchCmd.Flags().BoolVar(&searchOpen, "open", false, "open matching pictures on Pixiv")
	rootCmd.AddCommand(searchCmd)
}
