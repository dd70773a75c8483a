// Package main provides the entry point for the LumeDB CLI.
package main

import (
	"fmt"
	"os"

	"github.com/wizardsarehere/LumeDB/cmd/lumedb/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
