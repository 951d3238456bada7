package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/billet-recovery/internal/config"
	"github.com/iwvelando/billet-recovery/internal/export"
	"github.com/iwvelando/billet-recovery/internal/optimizer"
	"github.com/iwvelando/billet-recovery/internal/recovery"
	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/iwvelando/billet-recovery/pkg/output"
	"github.com/iwvelando/billet-recovery/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	runner        *optimizer.Runner
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// optimization API. A nil runner is replaced by one over the stocked
// candidate lengths without an audit sink.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, runner *optimizer.Runner) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if runner == nil {
		runner = optimizer.NewRunner(logger)
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, runner: runner}

	mux := http.NewServeMux()

	// Optimization API (JSON or YAML body)
	mux.HandleFunc("/api/optimize", h.handleOptimize)

	// Report download for the same request body
	mux.HandleFunc("/api/optimize/export", h.handleExport)

	// Stocked billet lengths and process constants
	mux.HandleFunc("/api/candidates", h.handleCandidates)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	mux.HandleFunc("/health", h.handleHealth)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

type optimizeResponse struct {
	RunID      string                     `json:"runId"`
	Params     recovery.ProcessParameters `json:"params"`
	Rounding   string                     `json:"rounding"`
	Found      bool                       `json:"found"`
	Optimum    *recovery.CandidateResult  `json:"optimum,omitempty"`
	Candidates []recovery.CandidateResult `json:"candidates"`
	Excluded   []float64                  `json:"excluded"`
	CSV        string                     `json:"csv"`
	Warnings   []string                   `json:"warnings,omitempty"`
	Duration   string                     `json:"duration"`
}

type candidatesResponse struct {
	Candidates         []float64 `json:"candidates"`
	ConversionFactor   float64   `json:"conversionFactor"`
	MaxExtrusionLength float64   `json:"maxExtrusionLength"`
	MarginThreshold    float64   `json:"marginThreshold"`
	MinButtWeight      float64   `json:"minButtWeight"`
	DefaultButtWeight  float64   `json:"defaultButtWeight"`
}

// requestError carries the HTTP status for a request that could not be
// turned into process parameters.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	params, warnings, err := h.readParameters(w, r)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	run, err := h.runner.Run(params)
	if err != nil {
		h.respondRunError(w, err, op)
		return
	}

	result := run.Result
	if !result.Found() {
		warnings = append(warnings, constants.NoOptimumMessage)
	}

	csvData, err := output.CsvString(result)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := optimizeResponse{
		RunID:      run.ID,
		Params:     result.Params,
		Rounding:   output.RoundingLabel(result.Params),
		Found:      result.Found(),
		Optimum:    result.Best,
		Candidates: result.Candidates,
		Excluded:   result.Excluded,
		CSV:        csvData,
		Warnings:   warnings,
		Duration:   elapsed.String(),
	}

	h.logger.Info("optimization computed",
		zap.String("op", op),
		zap.String("runId", run.ID),
		zap.Bool("found", response.Found),
		zap.Int("candidates", len(response.Candidates)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = constants.ExportFormatXLSX
	}
	if err := validation.ValidateExportFormat(format); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	params, _, err := h.readParameters(w, r)
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	run, err := h.runner.Run(params)
	if err != nil {
		h.respondRunError(w, err, op)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, run); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to build report: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.Filename(run, format),
	}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write report",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handleCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, candidatesResponse{
		Candidates:         h.runner.Candidates(),
		ConversionFactor:   constants.ConversionFactor,
		MaxExtrusionLength: constants.MaxExtrusionLength,
		MarginThreshold:    constants.MarginThreshold,
		MinButtWeight:      constants.MinButtWeight,
		DefaultButtWeight:  constants.DefaultButtWeight,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readParameters decodes the request body into process parameters. JSON is
// the default; a YAML content type selects YAML, where the body may be either
// bare parameters or a full configuration file with a process section.
func (h *handler) readParameters(w http.ResponseWriter, r *http.Request) (recovery.ProcessParameters, []string, error) {
	params := recovery.ProcessParameters{ButtWeight: constants.DefaultButtWeight}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return params, nil, &requestError{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize),
			}
		}
		return params, nil, &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("failed to read request: %v", err)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return params, nil, &requestError{status: http.StatusBadRequest, msg: "missing process parameters"}
	}

	if !isYAML(r.Header.Get("Content-Type")) {
		if err := json.Unmarshal(data, &params); err != nil {
			return params, nil, &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("failed to decode parameters: %v", err)}
		}
		return params, nil, nil
	}

	doc, err := decodeYAMLToMap(data)
	if err != nil {
		return params, nil, &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("error reading config data, %v", err)}
	}
	if _, ok := doc["process"]; ok {
		cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(data))
		if err != nil {
			return params, nil, &requestError{status: http.StatusBadRequest, msg: err.Error()}
		}
		return cfg.Process, cfg.ValidateConfiguration(), nil
	}

	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, nil, &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("failed to decode parameters: %v", err)}
	}
	return params, nil, nil
}

func isYAML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return false
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondRequestError(w http.ResponseWriter, err error, op string) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		h.respondErrorWithOp(w, reqErr.status, reqErr.msg, op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
}

func (h *handler) respondRunError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, recovery.ErrInvalidInput) {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("optimization failed: %v", err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("optimization request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
