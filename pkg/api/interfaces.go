// Package api provides interfaces for dependency injection
package api

import "github.com/ssargent/aodb/pkg/aodb"

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer starts the API server with the given configuration
	StartServer(db *aodb.DB, port int, apiKey, dataDir string) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
