package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	lumedb "github.com/wizardsarehere/LumeDB"
	"github.com/wizardsarehere/LumeDB/event"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a backup snapshot of the current document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Backup(); err != nil {
			return err
		}
		fmt.Printf("backup written to %s\n", store.BackupPath())
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the document with the backup copy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Restore(); err != nil {
			return err
		}
		fmt.Printf("document restored from %s\n", store.BackupPath())
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show a unified diff between the backup and the main file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		mainData, err := os.ReadFile(store.MainPath())
		if err != nil {
			return fmt.Errorf("failed to read main file: %w", err)
		}
		backupData, err := os.ReadFile(store.BackupPath())
		if err != nil {
			return fmt.Errorf("failed to read backup file: %w", err)
		}

		diff := unifiedDiff(store.BackupPath(), store.MainPath(), string(backupData), string(mainData))
		if diff == "" {
			fmt.Println("backup and main file are identical")
			return nil
		}
		fmt.Print(diff)
		return nil
	},
}

// unifiedDiff produces a patch-style line diff between two texts, prefixed
// with file headers.
func unifiedDiff(beforePath, afterPath, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(before, diffs)
	diffText := dmp.PatchToText(patches)
	if diffText == "" {
		return ""
	}

	return fmt.Sprintf("--- %s\n+++ %s\n%s", beforePath, afterPath, diffText)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow store events until interrupted",
	Long: `Open the store with the file watcher enabled and print every event as
it happens. External edits to the main file are picked up and reported.
Press Ctrl-C to stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		opts.Watch = true

		store, err := lumedb.New(opts)
		if err != nil {
			return err
		}
		defer store.Close()

		unsubscribe := store.Events().SubscribeAll(func(ev event.Event) {
			data, err := json.Marshal(ev.Data)
			if err != nil {
				fmt.Printf("%s\n", ev.Type)
				return
			}
			fmt.Printf("%s %s\n", ev.Type, data)
		})
		defer unsubscribe()

		fmt.Printf("watching %s (Ctrl-C to stop)\n", store.MainPath())

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		return nil
	},
}
