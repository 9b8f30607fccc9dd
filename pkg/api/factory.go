// Package api provides factory implementations for dependency injection
package api

import "github.com/ssargent/aodb/pkg/aodb"

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(db *aodb.DB, port int, apiKey, dataDir string) error {
	config := ServerConfig{
		Port:    port,
		APIKey:  apiKey,
		DataDir: dataDir,
	}
	return StartServer(db, config)
}
