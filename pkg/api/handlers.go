package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DataDog/zstd"
	"github.com/go-chi/chi/v5"
	"github.com/ssargent/aodb/pkg/aodb"
)

// Server holds the API server state
type Server struct {
	db      *aodb.DB
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(db *aodb.DB, config ServerConfig, metrics *Metrics) *Server {
	return &Server{db: db, config: config, metrics: metrics}
}

func parseVersion(w http.ResponseWriter, r *http.Request, param string) (aodb.Version, bool) {
	raw := chi.URLParam(r, param)
	u, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		sendError(w, fmt.Sprintf("invalid version %q", raw), http.StatusBadRequest)
		return 0, false
	}
	return aodb.Version(u), true
}

func urlKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key, err := url.QueryUnescape(chi.URLParam(r, "key"))
	if err != nil {
		sendError(w, "invalid key encoding", http.StatusBadRequest)
		return "", false
	}
	return key, true
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleGetKey godoc
//
//	@Summary		Get the value of a key as of a version
//	@Router			/versions/{v}/keys/{key} [get]
func (s *Server) handleGetKey(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	v, ok := parseVersion(w, r, "v")
	if !ok {
		return
	}
	key, ok := urlKey(w, r)
	if !ok {
		return
	}

	value, found, err := s.db.Get(v, []byte(key))
	if err != nil {
		s.metrics.RecordEngineOperation("get", false, time.Since(start))
		sendError(w, fmt.Sprintf("get failed: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordEngineOperation("get", true, time.Since(start))
	if !found {
		sendError(w, "key not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := w.Write(value); err != nil {
		sendError(w, "failed to write response", http.StatusInternalServerError)
	}
}

// handlePutKey godoc
//
//	@Summary		Set the value of a key, producing a new version
//	@Router			/versions/{v}/keys/{key} [put]
func (s *Server) handlePutKey(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	v, ok := parseVersion(w, r, "v")
	if !ok {
		return
	}
	key, ok := urlKey(w, r)
	if !ok {
		return
	}

	body := new(bytes.Buffer)
	if _, err := body.ReadFrom(r.Body); err != nil {
		s.metrics.RecordEngineOperation("set", false, time.Since(start))
		sendError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	newVersion, err := s.db.Set(v, []byte(key), body.Bytes())
	if err != nil {
		s.metrics.RecordEngineOperation("set", false, time.Since(start))
		sendError(w, fmt.Sprintf("set failed: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordEngineOperation("set", true, time.Since(start))
	s.metrics.RecordVersionServed()
	sendSuccess(w, map[string]uint64{"version": uint64(newVersion)})
}

// handleDeleteKey godoc
//
//	@Summary		Delete a key, producing a new version
//	@Router			/versions/{v}/keys/{key} [delete]
func (s *Server) handleDeleteKey(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	v, ok := parseVersion(w, r, "v")
	if !ok {
		return
	}
	key, ok := urlKey(w, r)
	if !ok {
		return
	}

	newVersion, err := s.db.Del(v, []byte(key))
	if err != nil {
		s.metrics.RecordEngineOperation("del", false, time.Since(start))
		sendError(w, fmt.Sprintf("delete failed: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordEngineOperation("del", true, time.Since(start))
	s.metrics.RecordVersionServed()
	sendSuccess(w, map[string]uint64{"version": uint64(newVersion)})
}

// handleCurrent godoc
//
//	@Summary		Get the current committed version
//	@Router			/current [get]
func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]uint64{"version": uint64(s.db.Current())})
}

// handleCommit godoc
//
//	@Summary		Compare-and-set the current version
//	@Router			/commit [post]
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}

	committed, err := s.db.Commit(aodb.Version(req.Version))
	if err != nil {
		s.metrics.RecordCommit(false)
		sendError(w, fmt.Sprintf("commit failed: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordCommit(committed)
	sendSuccess(w, map[string]bool{"committed": committed})
}

// handleBasedOn godoc
//
//	@Summary		Report whether version a descends from version b
//	@Router			/versions/{a}/based-on/{b} [get]
func (s *Server) handleBasedOn(w http.ResponseWriter, r *http.Request) {
	a, ok := parseVersion(w, r, "a")
	if !ok {
		return
	}
	b, ok := parseVersion(w, r, "b")
	if !ok {
		return
	}

	based, err := s.db.IsBasedOn(a, b)
	if err != nil {
		sendError(w, fmt.Sprintf("based-on failed: %v", err), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]bool{"based_on": based})
}

// handleCommonAncestor godoc
//
//	@Summary		Find the most recent version reachable from both a and b
//	@Router			/versions/{a}/common-ancestor/{b} [get]
func (s *Server) handleCommonAncestor(w http.ResponseWriter, r *http.Request) {
	a, ok := parseVersion(w, r, "a")
	if !ok {
		return
	}
	b, ok := parseVersion(w, r, "b")
	if !ok {
		return
	}

	ancestor, err := s.db.CommonAncestor(a, b)
	if err != nil {
		sendError(w, fmt.Sprintf("common-ancestor failed: %v", err), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]uint64{"common_ancestor": uint64(ancestor)})
}

// recordDTO is the wire form of one (key, value) pair.
type recordDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// handleIterate godoc
//
//	@Summary		Stream every record of a version in key order
//	@Router			/versions/{v}/iterate [get]
func (s *Server) handleIterate(w http.ResponseWriter, r *http.Request) {
	v, ok := parseVersion(w, r, "v")
	if !ok {
		return
	}

	it, err := s.db.Iterate(v)
	if err != nil {
		sendError(w, fmt.Sprintf("iterate failed: %v", err), http.StatusInternalServerError)
		return
	}

	var records []recordDTO
	for it.Next() {
		k, val := it.Record()
		records = append(records, recordDTO{Key: string(k), Value: string(val)})
	}
	if err := it.Err(); err != nil {
		sendError(w, fmt.Sprintf("iterate failed: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSONMaybeCompressed(w, r, map[string]interface{}{"records": records})
}

// handleDiff godoc
//
//	@Summary		Compute the changeset that turns version a into version b
//	@Router			/versions/{a}/diff/{b} [get]
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	a, ok := parseVersion(w, r, "a")
	if !ok {
		return
	}
	b, ok := parseVersion(w, r, "b")
	if !ok {
		return
	}

	ops, err := s.db.Diff(a, b)
	if err != nil {
		sendError(w, fmt.Sprintf("diff failed: %v", err), http.StatusInternalServerError)
		return
	}

	dtos := make([]ChangesetOpDTO, 0, len(ops))
	for _, op := range ops {
		dto := ChangesetOpDTO{Key: string(op.Key)}
		if op.Kind == aodb.OpModify {
			dto.Kind = "modify"
			dto.Value = string(op.Value)
		} else {
			dto.Kind = "remove"
		}
		dtos = append(dtos, dto)
	}

	writeJSONMaybeCompressed(w, r, map[string]interface{}{"ops": dtos})
}

// handleApply godoc
//
//	@Summary		Apply a changeset to a version, producing one new version
//	@Router			/versions/{v}/apply [post]
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	v, ok := parseVersion(w, r, "v")
	if !ok {
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}

	cs := aodb.NewChangeset()
	for _, op := range req.Ops {
		switch strings.ToLower(op.Kind) {
		case "modify":
			cs.Modify([]byte(op.Key), []byte(op.Value))
		case "remove":
			cs.Remove([]byte(op.Key))
		default:
			sendError(w, fmt.Sprintf("unknown op kind %q", op.Kind), http.StatusBadRequest)
			return
		}
	}

	newVersion, err := s.db.Apply(v, cs)
	if err != nil {
		sendError(w, fmt.Sprintf("apply failed: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordVersionServed()
	sendSuccess(w, map[string]uint64{"version": uint64(newVersion)})
}

// handleStats godoc
//
//	@Summary		Get database statistics
//	@Router			/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]interface{}{
		"current_version": uint64(s.db.Current()),
	})
}

// writeJSONMaybeCompressed marshals data as JSON and, when the client sent
// "Accept-Encoding: zstd", compresses the body and sets Content-Encoding.
// Reserved for the large ordered record streams iterate/diff can return;
// the on-disk format itself is never compressed.
func writeJSONMaybeCompressed(w http.ResponseWriter, r *http.Request, data interface{}) {
	body, err := json.Marshal(APIResponse{Success: true, Data: data})
	if err != nil {
		sendError(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if strings.Contains(r.Header.Get("Accept-Encoding"), "zstd") {
		compressed, err := zstd.Compress(nil, body)
		if err == nil {
			w.Header().Set("Content-Encoding", "zstd")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(compressed)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
