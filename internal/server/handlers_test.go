package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/morphokit/morphokit/internal/database"
	"github.com/morphokit/morphokit/pkg/config"
	"go.uber.org/zap"
)

const testSWC = `# index type x y z radius parent
1 1 0 0 0 2 -1
2 3 0 1 0 1 1
3 3 0 3 0 1 2
4 2 1 0 0 0.5 1
5 2 3 0 0 0.5 4
`

func testController(t *testing.T, withStore bool) *Controller {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "neuron.swc"), []byte(testSWC), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a morphology"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := zap.NewNop().Sugar()

	var store *database.Client
	if withStore {
		var err error
		store, err = database.NewClient(filepath.Join(dir, "results.db"), logger)
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		t.Cleanup(func() { store.Close() })
	}

	var wg sync.WaitGroup
	ctrl, err := NewController(context.Background(), &wg,
		config.ServerData{ListenAddr: "127.0.0.1:0", MorphologyDir: dir},
		config.AnalysisData{Kernels: []string{"total-length", "section-count"}},
		store, logger)
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return ctrl
}

func doRequest(t *testing.T, ctrl *Controller, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ctrl := testController(t, false)

	rec := doRequest(t, ctrl, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
	if body["version"] == "" {
		t.Error("version field empty")
	}
}

func TestListKernels(t *testing.T) {
	ctrl := testController(t, false)

	rec := doRequest(t, ctrl, http.MethodGet, "/api/kernels", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var kernels []kernelInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &kernels); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(kernels) == 0 {
		t.Fatal("no kernels listed")
	}
	found := false
	for _, k := range kernels {
		if k.Name == "total-length" {
			found = true
			if k.Description == "" {
				t.Error("total-length kernel has no description")
			}
		}
	}
	if !found {
		t.Error("total-length kernel missing from listing")
	}
}

func TestListMorphologies(t *testing.T) {
	ctrl := testController(t, false)

	rec := doRequest(t, ctrl, http.MethodGet, "/api/morphologies", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var files []string
	if err := json.Unmarshal(rec.Body.Bytes(), &files); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(files) != 1 || files[0] != "neuron.swc" {
		t.Errorf("files = %v, want [neuron.swc]", files)
	}
}

func TestAnalyze(t *testing.T) {
	ctrl := testController(t, false)

	body, _ := json.Marshal(map[string]any{"file": "neuron.swc"})
	rec := doRequest(t, ctrl, http.MethodPost, "/api/analyze", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.RunID != "" {
		t.Error("run id set without store")
	}
	if resp.Result == nil || resp.Result.Label != "neuron" {
		t.Fatalf("result = %+v", resp.Result)
	}
	if len(resp.Result.Results) != 2 {
		t.Fatalf("kernel result count = %d, want 2", len(resp.Result.Results))
	}

	// Basal section spans (0,1,0)-(0,3,0) and the axon (1,0,0)-(3,0,0)
	total := resp.Result.Result("total-length")
	if total == nil || !total.Morphology.Defined || total.Morphology.Value != 4 {
		t.Errorf("total-length = %+v", total)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	ctrl := testController(t, false)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid body", "{", http.StatusBadRequest},
		{"missing file", `{}`, http.StatusBadRequest},
		{"path traversal", `{"file": "../etc/passwd"}`, http.StatusBadRequest},
		{"unknown file", `{"file": "nope.swc"}`, http.StatusUnprocessableEntity},
		{"unknown kernel", `{"file": "neuron.swc", "kernels": ["bogus"]}`, http.StatusUnprocessableEntity},
		{"store without database", `{"file": "neuron.swc", "store": true}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, ctrl, http.MethodPost, "/api/analyze", []byte(tt.body))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAnalyzeStoreAndFetchRun(t *testing.T) {
	ctrl := testController(t, true)

	body, _ := json.Marshal(map[string]any{"file": "neuron.swc", "store": true})
	rec := doRequest(t, ctrl, http.MethodPost, "/api/analyze", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.RunID == "" {
		t.Fatal("no run id returned")
	}

	rec = doRequest(t, ctrl, http.MethodGet, "/api/runs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list runs status = %d", rec.Code)
	}
	var runs []database.RunSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("bad runs body: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != resp.RunID {
		t.Errorf("runs = %+v, want one run %s", runs, resp.RunID)
	}

	rec = doRequest(t, ctrl, http.MethodGet, "/api/runs/"+resp.RunID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get run status = %d", rec.Code)
	}

	rec = doRequest(t, ctrl, http.MethodGet, "/api/runs/no-such-run", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing run status = %d, want 404", rec.Code)
	}
}

func TestRunsWithoutStore(t *testing.T) {
	ctrl := testController(t, false)

	if rec := doRequest(t, ctrl, http.MethodGet, "/api/runs", nil); rec.Code != http.StatusConflict {
		t.Errorf("list runs status = %d, want 409", rec.Code)
	}
	if rec := doRequest(t, ctrl, http.MethodGet, "/api/runs/abc", nil); rec.Code != http.StatusConflict {
		t.Errorf("get run status = %d, want 409", rec.Code)
	}
}
