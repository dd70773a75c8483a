package commands

import (
	"strconv"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push <path> <value>",
	Short: "Append a value to the array at a path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		seq, err := store.Push(args[0], parseValue(args[1]))
		if err != nil {
			return err
		}
		return printJSON(seq)
	},
}

var unpushCmd = &cobra.Command{
	Use:   "unpush <path> <value>",
	Short: "Remove all occurrences of a value from the array at a path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		seq, err := store.Unpush(args[0], parseValue(args[1]))
		if err != nil {
			return err
		}
		return printJSON(seq)
	},
}

var setpCmd = &cobra.Command{
	Use:   "setp <path> <value> <position>",
	Short: "Replace the array element at a 1-based position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		seq, err := store.SetByPriority(args[0], parseValue(args[1]), priority)
		if err != nil {
			return err
		}
		return printJSON(seq)
	},
}

var delpCmd = &cobra.Command{
	Use:   "delp <path> <position>",
	Short: "Remove the array element at a 1-based position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		seq, err := store.DelByPriority(args[0], priority)
		if err != nil {
			return err
		}
		return printJSON(seq)
	},
}
