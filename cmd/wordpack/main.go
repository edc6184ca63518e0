package main

import (
	"fmt"
	"os"

	"github.com/ssargent/wordpack/cmd/wordpack/cmd"
	"github.com/ssargent/wordpack/pkg/di"
)

func main() {
	// Initialize dependency injection container
	container := di.NewContainer(nil)

	// Inject dependencies into cmd package
	cmd.SetContainer(container)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
