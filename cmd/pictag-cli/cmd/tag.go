package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pictag/internal/application/commands"
)

var addCmd = &cobra.Command{
	Use:   "add <name> <parent>",
	Short: "Add a tag or category under a parent",
	Long: `Create a new tag or category as a child of an existing parent.

Names starting with "#" are tags; anything else is a category.

Examples:
  pictag-cli add Works 标签
  pictag-cli add '#東方' Works`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewAddTagCommand(GetCatalog(), args[0], args[1]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var linkCmd = &cobra.Command{
	Use:   "link <name> <parent>",
	Short: "Add another parent to an existing tag",
	Long: `Link an existing tag under one more parent. Links that would make a
tag its own ancestor are rejected.

Example:
  pictag-cli link '#霊夢' Character`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewAddParentCommand(GetCatalog(), args[0], args[1]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name> <parent>",
	Short: "Detach a tag from one parent",
	Long: `Detach a tag from the given parent. A tag left without parents is
removed from the tree; its children keep their other parents.

Example:
  pictag-cli delete '#霊夢' Character`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteTagCommand(GetCatalog(), args[0], args[1]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <name> <from> <to>",
	Short: "Move a tag from one parent to another",
	Long: `Move a tag from one parent to another. When the tag is linked under
the new parent but cannot be detached from the old one, the partial
result is saved and reported as an error.

Example:
  pictag-cli move '#霊夢' Works '#東方'`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewMoveTagCommand(GetCatalog(), args[0], args[1], args[2]).Execute(context.Background())
		if result != nil {
			fmt.Println(result.Message)
		}
		return err
	},
}

var synonymCmd = &cobra.Command{
	Use:   "synonym",
	Short: "Manage tag synonyms",
}

var synonymAddCmd = &cobra.Command{
	Use:   "add <tag> <synonym>",
	Short: "Add a synonym to a tag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSynonym(commands.SynonymAdd, args[0], args[1])
	},
}

var synonymRemoveCmd = &cobra.Command{
	Use:   "remove <tag> <synonym>",
	Short: "Remove a synonym from a tag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSynonym(commands.SynonymRemove, args[0], args[1])
	},
}

func runSynonym(action commands.SynonymAction, tag, synonym string) error {
	result, err := commands.NewSynonymCommand(GetCatalog(), action, tag, synonym).Execute(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	return nil
}

var (
	editEnglish string
	editType    string
)

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Set a tag's English name and type",
	Long: `Set the English name and free-form type of a tag or category.
Flags left unset keep their current value.

Example:
  pictag-cli edit '#東方' --en "Touhou Project" --type IP`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := GetCatalog()
		current, err := catalog.Tag(args[0])
		if err != nil {
			return err
		}
		english, tagType := current.EnglishName, current.Type
		if cmd.Flags().Changed("en") {
			english = editEnglish
		}
		if cmd.Flags().Changed("type") {
			tagType = editType
		}

		result, err := commands.NewEditTagCommand(catalog, args[0], english, tagType).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a tag with its ancestors and descendants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewShowTagCommand(GetCatalog(), args[0]).Execute(context.Background())
		if err != nil {
			return err
		}

		rec := result.Tag
		fmt.Println(rec.Name)
		printField("English", rec.EnglishName)
		printField("Type", rec.Type)
		printField("Parents", strings.Join(rec.Parents, " "))
		printField("Children", strings.Join(rec.Children, " "))
		printField("Synonyms", strings.Join(rec.Synonyms, " "))
		printField("Ancestors", strings.Join(result.Ancestors, " "))
		printField("Descendants", strings.Join(result.Descendants, " "))
		return nil
	},
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %-12s %s\n", label+":", value)
}

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Fuzzy-find tags by name, English name or synonym",
	Long: `Find tags whose name, English name or synonym matches the query.

Results are ranked by relevance using fuzzy matching.

Examples:
  pictag-cli find touhou
  pictag-cli find 霊`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches, err := commands.NewFindTagsCommand(GetCatalog(), args[0], 20).Execute(context.Background())
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("No results found")
			return nil
		}
		for _, m := range matches {
			if m.MatchedText != m.Name {
				fmt.Printf("%s (%s)\n", m.Name, m.MatchedText)
				continue
			}
			fmt.Println(m.Name)
		}
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editEnglish, "en", "", "English name (printable ASCII)")
	editCmd.Flags().StringVar(&editType, "type", "", "type label, e.g. IP, Character, R-18")

	synonymCmd.AddCommand(synonymAddCmd, synonymRemoveCmd)
	rootCmd.AddCommand(addCmd, linkCmd, deleteCmd, moveCmd, synonymCmd, editCmd, showCmd, findCmd)
}
