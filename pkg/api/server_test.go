package api

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ssargent/aodb/pkg/aodb"
)

var (
	testMetricsOnce sync.Once
	testMetrics     *Metrics
)

// setupTestServer creates a test server backed by a fresh aodb file.
func setupTestServer(t *testing.T) (*Server, func()) {
	tmpDir, err := os.MkdirTemp("", "aodb_server_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	db, err := aodb.Open(filepath.Join(tmpDir, "data.aodb"), aodb.Options{MaxNodeSize: 4})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	serverConfig := ServerConfig{Port: 0, APIKey: "test-key"}
	// All test servers share one Metrics instance: NewMetrics registers its
	// collectors with the default Prometheus registry, and registering the
	// same collectors a second time panics.
	testMetricsOnce.Do(func() { testMetrics = NewMetrics() })
	server := NewServer(db, serverConfig, testMetrics)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return server, cleanup
}

func TestStartServer_ServerConstruction(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	if server == nil {
		t.Fatal("expected server to be created")
	}
	if server.config.APIKey != "test-key" {
		t.Errorf("expected API key 'test-key', got %q", server.config.APIKey)
	}
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   ServerConfig
		expected ServerConfig
	}{
		{
			name:     "valid config",
			config:   ServerConfig{Port: 8080, APIKey: "secret-key"},
			expected: ServerConfig{Port: 8080, APIKey: "secret-key"},
		},
		{
			name:     "empty config",
			config:   ServerConfig{},
			expected: ServerConfig{Port: 0, APIKey: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.config.Port != tt.expected.Port {
				t.Errorf("expected port %d, got %d", tt.expected.Port, tt.config.Port)
			}
			if tt.config.APIKey != tt.expected.APIKey {
				t.Errorf("expected API key %q, got %q", tt.expected.APIKey, tt.config.APIKey)
			}
		})
	}
}

func TestServer_CurrentAfterCommit(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	v1, err := server.db.Set(0, []byte("a"), []byte("1"))
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, err := server.db.Commit(v1); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if server.db.Current() != v1 {
		t.Errorf("expected current version %d, got %d", v1, server.db.Current())
	}
}
