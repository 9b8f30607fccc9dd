package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CommitRequest is the body of POST /v1/commit
type CommitRequest struct {
	Version uint64 `json:"version"`
}

// ApplyRequest is the body of POST /v1/versions/{v}/apply
type ApplyRequest struct {
	Ops []ChangesetOpDTO `json:"ops"`
}

// ChangesetOpDTO is the wire form of an aodb.ChangesetOp.
type ChangesetOpDTO struct {
	Kind  string `json:"kind"` // "modify" or "remove"
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port    int
	APIKey  string
	DataDir string
}
