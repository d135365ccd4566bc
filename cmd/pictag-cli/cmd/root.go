package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pictag/internal/application"
	"pictag/internal/bootstrap"
	"pictag/internal/config"
)

var (
	treePath string
	dbPath   string
	logLevel string
	env      *bootstrap.Env
)

var rootCmd = &cobra.Command{
	Use:   "pictag-cli",
	Short: "CLI for the pictag tag ontology and picture index",
	Long: `pictag-cli edits the tag ontology used to catalogue Pixiv pictures
and queries the picture index built from it.

Tags start with "#" and can be attached to pictures; other names are
categories that only organize the tree. A tag may have several parents.

Configuration is read from $PICTAG_CONFIG or ~/.config/pictag/config.yaml,
then PICTAG_* environment variables, then the flags below.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		env, err = bootstrap.Open(cfg, "pictag-cli", nil)
		return err
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	if env != nil {
		env.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&treePath, "tree", "", "path to the tag tree file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the picture database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

// loadConfig resolves the configuration and applies flags set on cmd
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("tree") {
		cfg.TreePath = config.ExpandHome(treePath)
	}
	if flags.Changed("db") {
		cfg.DatabasePath = config.ExpandHome(dbPath)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// GetCatalog returns the catalog opened for the running command
func GetCatalog() *application.Catalog {
	return env.Catalog
}
