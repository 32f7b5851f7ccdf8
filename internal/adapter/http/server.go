package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/epw-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker = sharedobs.ReadinessChecker

// Server exposes health, readiness, metrics, and EPW parsing endpoints.
type Server struct {
	httpServer     *http.Server
	parser         domain.Parser
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /v1/parse and /v1/preview routes. Uploads larger than maxUploadBytes are
// rejected with 413.
func NewServer(addr string, ready ReadinessChecker, parser domain.Parser, maxUploadBytes int64, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		parser:         parser,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/preview", s.handlePreview)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type parseResponse struct {
	RecordCount int         `json:"record_count"`
	TS          []time.Time `json:"ts"`
	WindDir     []float32   `json:"wind_dir"`
	WindSpeed   []float32   `json:"wind_speed"`
}

type previewResponse struct {
	Total       int         `json:"total"`
	RecordCount int         `json:"record_count"`
	TS          []time.Time `json:"ts"`
	WindDir     []float32   `json:"wind_dir"`
	WindSpeed   []float32   `json:"wind_speed"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Column string `json:"column,omitempty"`
	LineNo int    `json:"line_no,omitempty"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	q, err := bindQuery(r)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	cols, ok := s.parseBody(w, r, q.maxLines())
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, parseResponse{
		RecordCount: cols.Len(),
		TS:          cols.TS,
		WindDir:     cols.WindDir,
		WindSpeed:   cols.WindSpeed,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	q, err := bindQuery(r)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	cols, ok := s.parseBody(w, r, q.maxLines())
	if !ok {
		return
	}
	firstN, lastN := q.previewCounts()
	preview := domain.Preview(cols, firstN, lastN)
	sharedobs.WriteJSON(w, http.StatusOK, previewResponse{
		Total:       cols.Len(),
		RecordCount: preview.Len(),
		TS:          preview.TS,
		WindDir:     preview.WindDir,
		WindSpeed:   preview.WindSpeed,
	})
}

// parseBody reads the upload and runs the parser. On failure it writes the
// error response itself and returns false.
func (s *Server) parseBody(w http.ResponseWriter, r *http.Request, maxLines int) (domain.Columns, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sharedobs.WriteJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return domain.Columns{}, false
		}
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "read request body"})
		return domain.Columns{}, false
	}

	records, err := s.parser.Parse(body, maxLines)
	if err != nil {
		var pe *domain.ParseError
		if errors.As(err, &pe) {
			s.logger.Info("rejected epw upload",
				"request_id", middleware.GetReqID(r.Context()),
				"kind", pe.Kind.String(),
				"column", pe.Column,
				"line_no", pe.LineNo,
			)
			sharedobs.WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  pe.Error(),
				Kind:   pe.Kind.String(),
				Column: pe.Column,
				LineNo: pe.LineNo,
			})
			return domain.Columns{}, false
		}
		s.logger.Error("parse epw upload", "request_id", middleware.GetReqID(r.Context()), "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return domain.Columns{}, false
	}
	return domain.NewColumns(records), true
}
