// ABOUTME: Entry point for the U Jokes terminal comedy club
// ABOUTME: Hands control to the cobra command tree
package main

import (
	"fmt"
	"os"

	"github.com/ujokes/ujokes-go/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
