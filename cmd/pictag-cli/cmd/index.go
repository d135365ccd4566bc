package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pictag/internal/application"
	"pictag/internal/application/commands"
)

var (
	indexPIDs      []string
	skipCompletion bool
	unknownLimit   int
	pictureMeta    application.Picture
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Add every ancestor tag to stored picture tags",
	Long: `Complete the stored tags of pictures with the ancestors implied by
the tree. Tags added by an earlier run that the tree no longer implies
are dropped. Without --pids every picture is completed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pids, err := parsePIDs(indexPIDs)
		if err != nil {
			return err
		}
		result, err := commands.NewCompleteCommand(GetCatalog(), pids).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Complete tags and rebuild the search index",
	Long: `Complete picture tags, then rebuild the inverted index searches use.
With --pids only those pictures are reindexed; the rest of the index is
kept.

Examples:
  pictag-cli reindex
  pictag-cli reindex --pids 101,102 --skip-completion`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pids, err := parsePIDs(indexPIDs)
		if err != nil {
			return err
		}
		reindex := commands.NewReindexCommand(GetCatalog(), pids)
		reindex.SkipCompletion = skipCompletion
		result, err := reindex.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var unrecognizedCmd = &cobra.Command{
	Use:   "unrecognized",
	Short: "List picture tags missing from the tree, most used first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewUnrecognizedCommand(GetCatalog(), unknownLimit).Execute(context.Background())
		if err != nil {
			return err
		}
		for _, tc := range result.Tags {
			fmt.Printf("%6d  %s\n", tc.Count, tc.Tag)
		}
		fmt.Println(result.Message)
		return nil
	},
}

var pictureCmd = &cobra.Command{
	Use:   "picture",
	Short: "Read or add the tags of a picture",
}

var pictureTagCmd = &cobra.Command{
	Use:   "tag <pid> <tag>...",
	Short: "Attach tags to a picture and reindex it",
	Example: `  pictag-cli picture tag 101 '#霊夢' '#少女'
  pictag-cli picture tag 101 '#霊夢' --title 春 --user someone --user-id 42`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := parsePID(args[0])
		if err != nil {
			return err
		}
		tag := commands.NewTagPictureCommand(GetCatalog(), pid, args[1:])
		tag.Title, tag.User, tag.UserID = pictureMeta.Title, pictureMeta.User, pictureMeta.UserID
		tag.Date, tag.XRestrict = pictureMeta.Date, pictureMeta.XRestrict
		result, err := tag.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var pictureShowCmd = &cobra.Command{
	Use:   "show <pid>",
	Short: "Show the stored tags of a picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := parsePID(args[0])
		if err != nil {
			return err
		}
		result, err := commands.NewPictureTagsCommand(GetCatalog(), pid).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(pid)
		if result.Title != "" {
			printField("Title", result.Title)
		}
		if result.User != "" {
			printField("User", result.User)
		}
		printField("Explicit", strings.Join(result.Explicit, " "))
		printField("Derived", strings.Join(result.Derived, " "))
		return nil
	},
}

// parsePIDs parses picture ids given as repeated or comma-separated
// values. No values yields nil, meaning every picture.
func parsePIDs(values []string) ([]int64, error) {
	var pids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			pid, err := parsePID(part)
			if err != nil {
				return nil, err
			}
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

func parsePID(s string) (int64, error) {
	pid, err := strconv.ParseInt(s, 10, 64)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid picture id: %q", s)
	}
	return pid, nil
}

func init() {
	for _, c := range []*cobra.Command{completeCmd, reindexCmd} {
		c.Flags().StringSliceVar(&indexPIDs, "pids", nil, "only these picture ids (comma-separated)")
	}
	reindexCmd.Flags().BoolVar(&skipCompletion, "skip-completion", false, "index stored tags without completing them")
	unrecognizedCmd.Flags().IntVarP(&unknownLimit, "limit", "n", 50, "show at most n tags, 0 for all")

	pictureTagCmd.Flags().StringVar(&pictureMeta.Title, "title", "", "work title")
	pictureTagCmd.Flags().StringVar(&pictureMeta.User, "user", "", "artist name")
	pictureTagCmd.Flags().Int64Var(&pictureMeta.UserID, "user-id", 0, "artist id")
	pictureTagCmd.Flags().StringVar(&pictureMeta.Date, "date", "", "upload date")
	pictureTagCmd.Flags().IntVar(&pictureMeta.XRestrict, "x-restrict", 0, "0 all ages, 1 R-18, 2 R-18G")
	pictureCmd.AddCommand(pictureTagCmd, pictureShowCmd)
	rootCmd.AddCommand(completeCmd, reindexCmd, unrecognizedCmd, pictureCmd)
}
