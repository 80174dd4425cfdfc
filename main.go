// ABOUTME: Entry point for the arena CLI
// ABOUTME: Terminal client for the Arena tournament platform

package main

import (
	"fmt"
	"os"

	"github.com/Games-on/arena-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
