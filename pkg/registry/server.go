package registry

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/movey-network/movey/pkg/deps"
	"github.com/movey-network/movey/pkg/integrations"
)

// maxBodyBytes bounds the size of an info request.
const maxBodyBytes = 1 << 20

type infoRequest struct {
	Schemes []deps.Scheme `json:"schemes"`
}

type server struct {
	index  Index
	logger *log.Logger
}

// NewHandler returns the registry HTTP handler.
//
// Routes:
//   - POST /api/v1/packages/info: resolve a batch of schemes
//   - GET /healthz: liveness
//   - GET /metrics: served by metrics when it is non-nil
func NewHandler(index Index, logger *log.Logger, metrics http.Handler) http.Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &server{index: index, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/api/v1/packages/info", s.handleInfo)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	return r
}

// handleInfo answers with the records found for the requested schemes.
// Unknown schemes are left out; the client treats them as an error.
func (s *server) handleInfo(w http.ResponseWriter, r *http.Request) {
	var req infoRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	found := make(map[string]deps.Dependency, len(req.Schemes))
	for _, scheme := range req.Schemes {
		d, ok, err := Lookup(r.Context(), s.index, scheme)
		if err != nil {
			s.logger.Error("index lookup failed", "backend", s.index.Name(), "scheme", scheme.String(), "err", err)
			s.writeError(w, http.StatusInternalServerError, "index unavailable")
			return
		}
		if !ok {
			s.logger.Debug("scheme not found", "scheme", scheme.String())
			continue
		}
		found[d.Scheme] = d
	}

	records := make([]deps.Dependency, 0, len(found))
	for _, d := range found {
		records = append(records, d)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Scheme < records[j].Scheme })

	s.writeJSON(w, http.StatusOK, records)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", r.Header.Get(integrations.RequestIDHeader),
			"duration", time.Since(start))
	})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
