package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zalepa/crimerank/chart"
	"github.com/zalepa/crimerank/crime"
	"github.com/zalepa/crimerank/rank"
)

type metadata struct {
	Years          []int    `json:"years"`
	Categories     []string `json:"categories"`
	Municipalities []string `json:"municipalities"`
	MaxCount       int      `json:"maxCount"`
}

type rankingResponse struct {
	Title     string       `json:"title"`
	Year      int          `json:"year"`
	Total     int          `json:"total"`
	Top       []rank.Entry `json:"top"`
	Summary   string       `json:"summary"`
	Entries   []rank.Entry `json:"entries"`
	Undefined []string     `json:"undefined"`
}

type entryResponse struct {
	Entry    rank.Entry `json:"entry"`
	Total    int        `json:"total"`
	Sentence string     `json:"sentence"`
}

type evolutionResponse struct {
	Title string      `json:"title"`
	Years []int       `json:"years"`
	Lines []rank.Line `json:"lines"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves rankings and evolutions of a loaded dataset over HTTP.
type Server struct {
	ds         *crime.Dataset
	defaultTop int
	metrics    *Metrics
	registry   *prometheus.Registry
	router     chi.Router
}

// New builds the router over ds. defaultTop is the summary size used when a
// request does not set n.
func New(ctx context.Context, ds *crime.Dataset, defaultTop int) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		ds:         ds,
		defaultTop: defaultTop,
		metrics:    NewMetrics(),
		registry:   reg,
	}
	s.metrics.MustRegister(reg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(ctxlog.From(ctx), s.metrics))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/metadata", s.handleMetadata)
		r.Get("/ranking", s.handleRanking)
		r.Get("/ranking/{municipality}", s.handleEntry)
		r.Get("/evolution", s.handleEvolution)
		r.Get("/evolution.png", s.handleEvolutionPNG)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	logger := ctxlog.From(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", addr))
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shutdown server gracefully")
	}
	return nil
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metadata{
		Years:          s.ds.Years(),
		Categories:     s.ds.Categories(),
		Municipalities: s.ds.Municipalities(),
		MaxCount:       rank.MaxCount,
	})
}

// params reads the filter of a ranking request. Missing values take the
// dashboard defaults: latest year, all categories, no threshold, highest
// rates first.
func (s *Server) params(r *http.Request) (rank.Params, error) {
	q := r.URL.Query()
	p := rank.DefaultParams(s.ds)
	p.Count = s.defaultTop

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return p, goerr.Wrap(rank.ErrInvalidFilter, "year must be an integer", goerr.V("year", v))
		}
		p.Year = year
	}
	if cats, ok := q["category"]; ok {
		p.Categories = nonEmpty(cats)
	}
	if v := q.Get("min_population"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, goerr.Wrap(rank.ErrInvalidFilter, "min_population must be an integer", goerr.V("min_population", v))
		}
		p.MinPopulation = n
	}
	if v := q.Get("direction"); v != "" {
		dir, err := rank.ParseDirection(v)
		if err != nil {
			return p, err
		}
		p.Direction = dir
	}
	if v := q.Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, goerr.Wrap(rank.ErrTopNOutOfRange, "n must be an integer", goerr.V("n", v))
		}
		p.Count = n
	}
	return p, p.Validate(s.ds)
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	p, err := s.params(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ranking := rank.Compute(s.ds, p)
	s.metrics.rankings.WithLabelValues(p.Direction.String()).Inc()
	top, err := rank.TopN(ranking, p.Count)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rankingResponse{
		Title:     rank.Heading(p.Direction),
		Year:      p.Year,
		Total:     ranking.Len(),
		Top:       top,
		Summary:   rank.Summary(top),
		Entries:   ranking.Entries,
		Undefined: ranking.Undefined,
	})
}

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	p, err := s.params(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ranking := rank.Compute(s.ds, p)
	s.metrics.rankings.WithLabelValues(p.Direction.String()).Inc()
	entry, err := rank.Lookup(ranking, chi.URLParam(r, "municipality"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entryResponse{
		Entry:    entry,
		Total:    ranking.Len(),
		Sentence: rank.Sentence(ranking, entry, p),
	})
}

func (s *Server) evolution(r *http.Request) []rank.Line {
	q := r.URL.Query()
	municipalities := nonEmpty(q["municipality"])
	categories := s.ds.Categories()
	if cats, ok := q["category"]; ok {
		categories = nonEmpty(cats)
	}
	points := rank.Evolution(s.ds.Records(), municipalities, categories)
	s.metrics.evolutions.Inc()
	return rank.Series(points, municipalities)
}

func (s *Server) handleEvolution(w http.ResponseWriter, r *http.Request) {
	lines := s.evolution(r)
	resp := evolutionResponse{
		Years: rank.Years(lines),
		Lines: lines,
	}
	if len(lines) > 0 {
		resp.Title = chart.Title(lines)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvolutionPNG(w http.ResponseWriter, r *http.Request) {
	lines := s.evolution(r)
	if len(lines) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no data for the selected municipalities"})
		return
	}

	p, err := chart.Evolution(lines)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := chart.WritePNG(w, p, chart.Width, chart.Height); err != nil {
		ctxlog.From(r.Context()).Error("failed to write chart", "error", err)
	}
}

// nonEmpty drops blank values, so "?category=" selects nothing.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors to status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, rank.ErrInvalidFilter), errors.Is(err, rank.ErrTopNOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, rank.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, rank.ErrRateUndefined):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		ctxlog.From(r.Context()).Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
