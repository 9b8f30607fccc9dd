package main

import (
	"github.com/ssargent/aodb/cmd/aodb/cmd"
	"github.com/ssargent/aodb/pkg/di"
)

func main() {
	// Initialize dependency injection container
	container := di.NewContainer()

	// Inject dependencies into cmd package
	cmd.SetContainer(container)

	cmd.Execute()
}
