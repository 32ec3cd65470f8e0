package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/morphokit/morphokit/internal/analysis"
	"github.com/morphokit/morphokit/internal/constants"
	"github.com/morphokit/morphokit/pkg/responseformat"
	"github.com/morphokit/morphokit/pkg/swc"
)

// Handlers contains all HTTP handlers for the results server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// Health reports server liveness and version.
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string]string{
		"status":  "ok",
		"version": constants.Version,
	}, nil)
}

type kernelInfo struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Format      analysis.Format      `json:"format"`
	Aggregation analysis.Aggregation `json:"aggregation"`
}

// ListKernels returns the registered analysis kernels.
func (h *Handlers) ListKernels(w http.ResponseWriter, req *http.Request) {
	registry := h.controller.analyzer.Registry()

	var kernels []kernelInfo
	for _, name := range registry.Names() {
		kernel, err := registry.Get(name)
		if err != nil {
			continue
		}
		kernels = append(kernels, kernelInfo{
			Name:        kernel.Name,
			Description: kernel.Description,
			Format:      kernel.Format,
			Aggregation: kernel.Aggregation,
		})
	}

	h.formatter.WriteResponse(w, req, kernels, nil)
}

// ListMorphologies returns the SWC files available in the configured
// morphology directory.
func (h *Handlers) ListMorphologies(w http.ResponseWriter, req *http.Request) {
	entries, err := os.ReadDir(h.controller.cfg.MorphologyDir)
	if err != nil {
		h.controller.logger.Errorf("failed to read morphology directory: %v", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "cannot read morphology directory")
		return
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".swc") {
			files = append(files, entry.Name())
		}
	}

	h.formatter.WriteResponse(w, req, files, nil)
}

type analyzeRequest struct {
	File     string   `json:"file"`
	Kernels  []string `json:"kernels,omitempty"`
	Parallel *bool    `json:"parallel,omitempty"`
	Store    bool     `json:"store,omitempty"`
}

type analyzeResponse struct {
	RunID  string                             `json:"runId,omitempty"`
	Result *analysis.MorphologyAnalysisResult `json:"result"`
}

// Analyze reads a morphology from the configured directory, runs the
// requested kernels and returns the aggregated result. When store is set and
// a results database is configured, the run is persisted and its id returned.
func (h *Handlers) Analyze(w http.ResponseWriter, req *http.Request) {
	var body analyzeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.File == "" {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "missing morphology file name")
		return
	}

	// Only bare file names inside the morphology directory are served
	if body.File != filepath.Base(body.File) {
		h.formatter.WriteError(w, req, http.StatusBadRequest, "morphology file must be a bare file name")
		return
	}
	path := filepath.Join(h.controller.cfg.MorphologyDir, body.File)

	m, err := swc.ReadFile(path)
	if err != nil {
		h.controller.logger.Warnf("failed to read morphology %s: %v", body.File, err)
		h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, err.Error())
		return
	}

	opts := analysis.Options{
		Kernels:               h.controller.defaults.Kernels,
		Parallel:              h.controller.defaults.Parallel,
		MaximumBranchingOrder: h.controller.defaults.MaximumBranchingOrder,
	}
	if len(body.Kernels) > 0 {
		opts.Kernels = body.Kernels
	}
	if body.Parallel != nil {
		opts.Parallel = *body.Parallel
	}

	result, err := h.controller.analyzer.Analyze(m, opts)
	if err != nil {
		h.controller.logger.Warnf("analysis of %s failed: %v", body.File, err)
		h.formatter.WriteError(w, req, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := analyzeResponse{Result: result}
	if body.Store {
		if h.controller.store == nil {
			h.formatter.WriteError(w, req, http.StatusConflict, "no results database configured")
			return
		}
		runID, err := h.controller.store.SaveRun(result)
		if err != nil {
			h.controller.logger.Errorf("failed to store analysis run: %v", err)
			h.formatter.WriteError(w, req, http.StatusInternalServerError, "failed to store analysis run")
			return
		}
		resp.RunID = runID
	}

	h.formatter.WriteResponse(w, req, resp, nil)
}

// ListRuns returns summaries of stored analysis runs.
func (h *Handlers) ListRuns(w http.ResponseWriter, req *http.Request) {
	if h.controller.store == nil {
		h.formatter.WriteError(w, req, http.StatusConflict, "no results database configured")
		return
	}

	runs, err := h.controller.store.ListRuns()
	if err != nil {
		h.controller.logger.Errorf("failed to list analysis runs: %v", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "failed to list analysis runs")
		return
	}

	h.formatter.WriteResponse(w, req, runs, nil)
}

// GetRun returns one stored analysis run with its full result.
func (h *Handlers) GetRun(w http.ResponseWriter, req *http.Request) {
	if h.controller.store == nil {
		h.formatter.WriteError(w, req, http.StatusConflict, "no results database configured")
		return
	}

	id := mux.Vars(req)["id"]
	run, err := h.controller.store.GetRun(id)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusNotFound, err.Error())
		return
	}

	h.formatter.WriteResponse(w, req, run, nil)
}
