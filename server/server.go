package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"cofoundr_pitch_deck/content"
	"cofoundr_pitch_deck/generator"
	"cofoundr_pitch_deck/health"
	"cofoundr_pitch_deck/orchestrator"
	"cofoundr_pitch_deck/publisher"
)

// Server exposes one generation session over a local JSON API.
type Server struct {
	session  *orchestrator.Session
	orch     *orchestrator.Orchestrator
	store    *health.Store
	progress *orchestrator.Progress
	gate     *publisher.Gate
	metrics  http.Handler
	logger   *log.Logger
}

// Deps are the collaborators the server needs. Progress and Metrics are optional.
type Deps struct {
	Orchestrator *orchestrator.Orchestrator
	Store        *health.Store
	Progress     *orchestrator.Progress
	Gate         *publisher.Gate
	Metrics      http.Handler
	Logger       *log.Logger
}

func New(d Deps) (*Server, error) {
	if d.Orchestrator == nil {
		return nil, errors.New("orchestrator required")
	}
	if d.Store == nil {
		return nil, errors.New("status store required")
	}
	if d.Gate == nil {
		return nil, errors.New("export gate required")
	}
	if d.Progress == nil {
		d.Progress = &orchestrator.Progress{}
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	return &Server{
		session:  orchestrator.NewSession(d.Orchestrator),
		orch:     d.Orchestrator,
		store:    d.Store,
		progress: d.Progress,
		gate:     d.Gate,
		metrics:  d.Metrics,
		logger:   d.Logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/regenerate", s.handleRegenerate)
	mux.HandleFunc("POST /api/export", s.handleExport)
	mux.HandleFunc("GET /api/preview", s.handlePreview)
	mux.HandleFunc("GET /api/share", s.handleShare)
	mux.HandleFunc("POST /api/abandon", s.handleAbandon)
	mux.HandleFunc("POST /api/clear", s.handleClear)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return logMiddleware(s.logger, mux)
}

// --- Handlers ---

type statusResp struct {
	Status        health.Status `json:"status"`
	Label         string        `json:"label"`
	MockMode      bool          `json:"mock_mode"`
	Badge         string        `json:"badge,omitempty"`
	SubmitEnabled bool          `json:"submit_enabled"`
	InFlight      bool          `json:"in_flight"`
	Progress      string        `json:"progress,omitempty"`
	CanExport     bool          `json:"can_export"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type generateReq struct {
	Idea string `json:"idea"`
	generator.OptionSet
}

type regenerateReq struct {
	Style string `json:"style"`
}

type outcomeResp struct {
	Kind      orchestrator.Kind    `json:"kind"`
	Class     generator.ErrorClass `json:"class,omitempty"`
	Message   string               `json:"message"`
	RequestID string               `json:"request_id,omitempty"`
	Options   generator.OptionSet  `json:"options"`
	Status    health.Status        `json:"status"`
}

type exportReq struct {
	Confirm bool `json:"confirm"`
}

type exportResp struct {
	Filename string             `json:"filename,omitempty"`
	Decision publisher.Decision `json:"decision"`
	Error    string             `json:"error,omitempty"`
}

type previewResp struct {
	Preview    content.StructurePreview `json:"preview"`
	Validation content.ValidationResult `json:"validation"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	inFlight := s.orch.InFlight()
	resp := statusResp{
		Status:        snap.Status,
		Label:         snap.Status.Label(),
		MockMode:      snap.MockMode,
		SubmitEnabled: snap.Status.AllowsSubmit() && !inFlight,
		InFlight:      inFlight,
		Progress:      s.progress.Current(),
		CanExport:     s.session.LooksValid(),
		UpdatedAt:     snap.UpdatedAt,
	}
	if snap.MockMode {
		resp.Badge = "Demo Mode"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out := s.session.Generate(r.Context(), req.Idea, req.OptionSet)
	s.writeOutcome(w, out)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req regenerateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.session.Idea() == "" {
		http.Error(w, "generate a pitch deck before regenerating", http.StatusConflict)
		return
	}
	out := s.session.RegenerateWithStyle(r.Context(), generator.Style(req.Style))
	s.writeOutcome(w, out)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if !s.session.LooksValid() {
		http.Error(w, "no pitch deck to export", http.StatusBadRequest)
		return
	}

	confirm := func(string) bool { return req.Confirm }
	res, err := s.gate.Export(r.Context(), s.session.Output(), s.session.Idea(), confirm)
	resp := exportResp{Filename: res.Filename, Decision: res.Decision}

	var (
		cve *publisher.ContentValidationError
		ee  *publisher.ExportError
	)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, publisher.ErrExportDeclined):
		resp.Error = res.Decision.Warning
		writeJSON(w, http.StatusConflict, resp)
	case errors.As(err, &cve):
		resp.Error = cve.Message
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.As(err, &ee):
		resp.Error = ee.UserMessage()
		writeJSON(w, http.StatusBadGateway, resp)
	default:
		resp.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	text := s.session.Output()
	writeJSON(w, http.StatusOK, previewResp{
		Preview:    content.Preview(text),
		Validation: content.Validate(text),
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	if !s.session.LooksValid() {
		http.Error(w, "no pitch deck to share", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mailto": publisher.ShareMailto(s.session.Output())})
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	s.session.Abandon()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeOutcome(w http.ResponseWriter, out orchestrator.Outcome) {
	resp := outcomeResp{
		Kind:    out.Kind(),
		Class:   orchestrator.Class(out),
		Message: orchestrator.Display(out),
		Options: s.session.Options(),
		Status:  s.store.Status(),
	}
	code := http.StatusOK
	switch v := out.(type) {
	case orchestrator.Success:
		resp.RequestID = v.RequestID
	case orchestrator.ServiceError:
		resp.RequestID = v.RequestID
		code = http.StatusBadGateway
		if v.Local() {
			code = localStatus(v.Err)
		}
	case orchestrator.TransportFailure:
		resp.RequestID = v.RequestID
		code = http.StatusBadGateway
		if v.Class == generator.ClassTimeout {
			code = http.StatusGatewayTimeout
		}
	}
	writeJSON(w, code, resp)
}

func localStatus(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, orchestrator.ErrServerOffline):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		logger.Printf("[server] %s %s %d %v", r.Method, path, rec.code, time.Since(start).Round(time.Millisecond))
	})
}
