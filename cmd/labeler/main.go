// Package main is the entry point for the labeler CLI.
package main

import (
	"fmt"
	"os"

	"github.com/labelgh/labeler-bot/cmd/labeler/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
