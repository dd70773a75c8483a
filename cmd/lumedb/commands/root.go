// Package commands provides the CLI commands for LumeDB.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	lumedb "github.com/wizardsarehere/LumeDB"
	"github.com/wizardsarehere/LumeDB/internal/config"
	"github.com/wizardsarehere/LumeDB/internal/logging"
)

// BuildTime is set at build time via ldflags.
var BuildTime = "dev"

// Global flags
var (
	flagFolder      string
	flagFile        string
	flagReadable    bool
	flagNoBlankData bool
	flagLogLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "lumedb",
	Short: "LumeDB - embedded JSON document store",
	Long: `LumeDB is a file-backed JSON document store with dot-path addressing,
write-through persistence, and automatic backup recovery.

Run 'lumedb set users.alice.age 30' to store a value, 'lumedb get
users.alice' to read it back, or 'lumedb watch' to follow changes live.`,
	Version: lumedb.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env next to the caller can hold LUMEDB_* settings.
		_ = godotenv.Load()

		level := flagLogLevel
		if level == "" {
			level = os.Getenv("LUMEDB_LOG_LEVEL")
		}
		logging.Init(logging.Config{
			Level:  logging.ParseLevel(level),
			Pretty: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand, show help
		cmd.Help()
	},
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&flagFolder, "folder", "", "Database folder (default from config or ~/.local/share/lumedb)")
	rootCmd.PersistentFlags().StringVar(&flagFile, "file", "", "Database file name without extension (default \"data\")")
	rootCmd.PersistentFlags().BoolVar(&flagReadable, "readable", false, "Indent the JSON files for humans")
	rootCmd.PersistentFlags().BoolVar(&flagNoBlankData, "no-blank-data", false, "Prune empty containers left behind by deletes")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "WARN", "Log level (DEBUG|INFO|WARN|ERROR)")

	// Version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("lumedb %s (%s)\n", lumedb.Version, BuildTime))

	// Add subcommands
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(hasCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(allCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(delCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(unpushCmd)
	rootCmd.AddCommand(setpCmd)
	rootCmd.AddCommand(delpCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(watchCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolveOptions layers store options from defaults, config files, the
// environment, and finally command-line flags.
func resolveOptions(cmd *cobra.Command) (lumedb.Options, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return lumedb.Options{}, err
	}

	opts := lumedb.DefaultOptions()
	// The CLI keeps its database under the user data dir unless told
	// otherwise, so invocations from different directories hit the same
	// store.
	opts.Folder = config.GetPaths().Data

	settings, err := config.Load(workDir)
	if err != nil {
		return lumedb.Options{}, err
	}
	settings.Apply(&opts)

	if cmd.Flags().Changed("folder") {
		opts.Folder = flagFolder
	}
	if cmd.Flags().Changed("file") {
		opts.File = flagFile
	}
	if cmd.Flags().Changed("readable") {
		opts.Readable = flagReadable
	}
	if cmd.Flags().Changed("no-blank-data") {
		opts.NoBlankData = flagNoBlankData
	}

	return opts, nil
}

// openStore opens the store for a one-shot command. The watcher and update
// checker only matter for long-running processes, so they stay off here.
func openStore(cmd *cobra.Command) (*lumedb.Store, error) {
	opts, err := resolveOptions(cmd)
	if err != nil {
		return nil, err
	}
	opts.Watch = false
	opts.CheckUpdates = false
	return lumedb.New(opts)
}

// printJSON writes a value to stdout as indented JSON.
func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
