package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pictag/internal/application"
	"pictag/internal/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree [name]",
	Short: "Display the tag tree",
	Long: `Display the tag tree, from the root or from the given node.
A tag with several parents is printed under each of them.

Examples:
  pictag-cli tree
  pictag-cli tree Works`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := GetCatalog().Tree()
		if len(args) == 1 {
			root = root.Find(args[0])
			if root == nil {
				return fmt.Errorf("%s: %w", args[0], domain.ErrNotFound)
			}
		}
		printTree(root, 0)
		return nil
	},
}

func printTree(node *application.TreeNode, depth int) {
	if node == nil {
		return
	}

	indent := strings.Repeat("  ", depth)
	line := indent + node.Name
	if node.EnglishName != "" {
		line += " (" + node.EnglishName + ")"
	}
	if len(node.Synonyms) > 0 {
		line += " = " + strings.Join(node.Synonyms, ", ")
	}
	fmt.Println(line)

	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
