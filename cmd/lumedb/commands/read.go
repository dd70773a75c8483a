package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print the value stored at a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		value, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("no value at %q", args[0])
		}
		return printJSON(value)
	},
}

var hasCmd = &cobra.Command{
	Use:   "has <path>",
	Short: "Report whether a path holds a value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Println(store.Has(args[0]))
		return nil
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys [path]",
	Short: "List the keys of the object at a path (or the root)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		keys, ok := store.Keys(path)
		if !ok {
			return fmt.Errorf("no object at %q", path)
		}
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Print the whole document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		return printJSON(store.All())
	},
}

var findCmd = &cobra.Command{
	Use:   "find <pattern>",
	Short: "Print all paths matching a glob pattern",
	Long: `Print all paths matching a glob pattern along with their values.

Patterns use dot-separated segments where * matches one segment and **
matches any number of segments:

  lumedb find 'users.*.age'
  lumedb find 'users.**'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		matches, err := store.Find(args[0])
		if err != nil {
			return err
		}
		return printJSON(matches)
	},
}
