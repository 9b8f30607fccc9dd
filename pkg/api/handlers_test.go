package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRequest(method, target string, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandlePutAndGetKey(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	// Put at version 0: should succeed and return a new version.
	req := newTestRequest(http.MethodPut, "/v1/versions/0/keys/a", "hello", map[string]string{"v": "0", "key": "a"})
	w := httptest.NewRecorder()
	server.handlePutKey(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var putResp struct {
		Success bool
		Data    struct {
			Version uint64 `json:"version"`
		}
	}
	if err := json.Unmarshal(w.Body.Bytes(), &putResp); err != nil {
		t.Fatalf("failed to decode put response: %v", err)
	}
	if !putResp.Success {
		t.Fatalf("expected success, got failure response: %s", w.Body.String())
	}
	newVersion := putResp.Data.Version

	// Get the key back at the new version.
	getReq := newTestRequest(http.MethodGet, "/v1/versions/"+strconv.FormatUint(newVersion, 10)+"/keys/a", "", map[string]string{
		"v": strconv.FormatUint(newVersion, 10), "key": "a",
	})
	getW := httptest.NewRecorder()
	server.handleGetKey(getW, getReq)

	if getW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", getW.Code, getW.Body.String())
	}
	if getW.Body.String() != "hello" {
		t.Errorf("expected body 'hello', got %q", getW.Body.String())
	}
}

func TestHandleGetKey_MissingKey(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	req := newTestRequest(http.MethodGet, "/v1/versions/0/keys/missing", "", map[string]string{"v": "0", "key": "missing"})
	w := httptest.NewRecorder()
	server.handleGetKey(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleGetKey_InvalidVersion(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	req := newTestRequest(http.MethodGet, "/v1/versions/not-a-number/keys/a", "", map[string]string{"v": "not-a-number", "key": "a"})
	w := httptest.NewRecorder()
	server.handleGetKey(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleDeleteKey(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	v1, err := server.db.Set(0, []byte("a"), []byte("1"))
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}

	req := newTestRequest(http.MethodDelete, "/v1/versions/"+strconv.FormatUint(uint64(v1), 10)+"/keys/a", "", map[string]string{
		"v": strconv.FormatUint(uint64(v1), 10), "key": "a",
	})
	w := httptest.NewRecorder()
	server.handleDeleteKey(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleCurrent(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	v1, err := server.db.Set(0, []byte("a"), []byte("1"))
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, err := server.db.Commit(v1); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/current", nil)
	w := httptest.NewRecorder()
	server.handleCurrent(w, req)

	var resp struct {
		Data struct {
			Version uint64 `json:"version"`
		}
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Version != uint64(v1) {
		t.Errorf("expected version %d, got %d", v1, resp.Data.Version)
	}
}

func TestHandleCommit(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	v1, err := server.db.Set(0, []byte("a"), []byte("1"))
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}

	body, _ := json.Marshal(CommitRequest{Version: uint64(v1)})
	req := httptest.NewRequest(http.MethodPost, "/v1/commit", strings.NewReader(string(body)))
	w := httptest.NewRecorder()
	server.handleCommit(w, req)

	var resp struct {
		Data struct {
			Committed bool `json:"committed"`
		}
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Data.Committed {
		t.Errorf("expected commit to succeed")
	}
}

func TestHandleDiffAndApply(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	v1, err := server.db.Set(0, []byte("a"), []byte("1"))
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v2, err := server.db.Set(v1, []byte("b"), []byte("2"))
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}

	req := newTestRequest(http.MethodGet, "/v1/versions/0/diff/x", "", map[string]string{
		"a": "0", "b": strconv.FormatUint(uint64(v2), 10),
	})
	w := httptest.NewRecorder()
	server.handleDiff(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var diffResp struct {
		Data struct {
			Ops []ChangesetOpDTO `json:"ops"`
		}
	}
	if err := json.Unmarshal(w.Body.Bytes(), &diffResp); err != nil {
		t.Fatalf("failed to decode diff response: %v", err)
	}
	if len(diffResp.Data.Ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(diffResp.Data.Ops))
	}

	applyBody, _ := json.Marshal(ApplyRequest{Ops: diffResp.Data.Ops})
	applyReq := newTestRequest(http.MethodPost, "/v1/versions/0/apply", string(applyBody), map[string]string{"v": "0"})
	applyW := httptest.NewRecorder()
	server.handleApply(applyW, applyReq)

	if applyW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", applyW.Code, applyW.Body.String())
	}
}

func TestHandleIterate(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	v1, err := server.db.Set(0, []byte("a"), []byte("1"))
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}

	req := newTestRequest(http.MethodGet, "/v1/versions/"+strconv.FormatUint(uint64(v1), 10)+"/iterate", "", map[string]string{
		"v": strconv.FormatUint(uint64(v1), 10),
	})
	w := httptest.NewRecorder()
	server.handleIterate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Records []recordDTO `json:"records"`
		}
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode iterate response: %v", err)
	}
	if len(resp.Data.Records) != 1 || resp.Data.Records[0].Key != "a" {
		t.Errorf("unexpected records: %+v", resp.Data.Records)
	}
}

func TestHandleHealth(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	w := httptest.NewRecorder()
	server.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
