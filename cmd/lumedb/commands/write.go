package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// parseValue interprets a CLI argument as JSON when possible and falls back
// to a plain string, so `set a 1` stores a number and `set a hello` stores
// a string without requiring shell-escaped quotes.
func parseValue(arg string) any {
	var value any
	if err := json.Unmarshal([]byte(arg), &value); err == nil {
		return value
	}
	return arg
}

var setCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Store a value at a path",
	Long: `Store a value at a path, creating intermediate objects as needed.

The value is parsed as JSON when possible, otherwise stored as a string:

  lumedb set users.alice.age 30
  lumedb set users.alice.name Alice
  lumedb set users.alice '{"age": 30, "admin": true}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		stored, err := store.Set(args[0], parseValue(args[1]))
		if err != nil {
			return err
		}
		return printJSON(stored)
	},
}

var delCmd = &cobra.Command{
	Use:   "del <path>",
	Short: "Remove the value at a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.Delete(args[0])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("nothing stored at %q\n", args[0])
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the whole document to empty",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		return store.Clear()
	},
}
