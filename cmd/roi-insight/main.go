package main

import (
	"fmt"
	"os"

	"roi-insight/cmd/roi-insight/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
