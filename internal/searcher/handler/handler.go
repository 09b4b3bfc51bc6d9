package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textquery/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/textquery/internal/searcher/query"
	apperrors "github.com/Adithya-Monish-Kumar-K/textquery/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/textquery/pkg/tracing"
)

type QueryExecutor interface {
	Execute(ctx context.Context, q query.Query) (*executor.Result, error)
}

// Lines is the part of the line index the handler reads directly.
type Lines interface {
	LineText(i int) (string, error)
	Stats() index.Stats
	Snapshot() []index.TermEntry
}

type Handler struct {
	executor QueryExecutor
	lines    Lines
	cache    *cache.QueryCache
	maxTerms int
	logger   *slog.Logger
}

type queryResponse struct {
	*executor.Result
	CacheHit bool `json:"cache_hit"`
}

type lineResponse struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// New returns a Handler. queryCache may be nil to disable caching.
func New(exec QueryExecutor, lines Lines, queryCache *cache.QueryCache, maxTerms int) *Handler {
	return &Handler{
		executor: exec,
		lines:    lines,
		cache:    queryCache,
		maxTerms: maxTerms,
		logger:   slog.Default().With("component", "query-handler"),
	}
}

// Register mounts the handler's routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/query", h.Query)
	mux.HandleFunc("GET /api/v1/lines/{n}", h.Line)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/index/terms", h.IndexTerms)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

// Query evaluates the query described by the repeated all, any and none
// parameters. See Filter.Build for how they combine.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracing.Start(r.Context(), "http.query")
	log := logger.FromContext(ctx)
	defer func() {
		span.End()
		span.Log(log)
	}()

	params := r.URL.Query()
	filter := Filter{All: params["all"], Any: params["any"], None: params["none"]}
	if n := filter.termCount(); n == 0 {
		h.writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "at least one of all, any or none is required"))
		return
	} else if n > h.maxTerms {
		h.writeError(w, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "too many terms: %d > %d", n, h.maxTerms))
		return
	}
	q := filter.Build()

	var (
		result   *executor.Result
		err      error
		cacheHit bool
	)
	if h.cache != nil {
		// Callers coalesced onto this computation must not inherit this
		// request's cancellation.
		shared := context.WithoutCancel(ctx)
		result, cacheHit, err = h.cache.GetOrCompute(ctx, q, func() (*executor.Result, error) {
			return h.executor.Execute(shared, q)
		})
	} else {
		result, err = h.executor.Execute(ctx, q)
	}
	if err != nil {
		log.Error("query execution failed", "query", query.Render(q), "error", err)
		h.writeError(w, err)
		return
	}

	span.SetAttr("cache_hit", cacheHit)
	log.Info("query completed",
		"query", result.Query,
		"total_hits", result.TotalHits,
		"returned", len(result.Matches),
		"cache_hit", cacheHit,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, queryResponse{Result: result, CacheHit: cacheHit})
}

// Line returns the text of line n, counted from 1.
func (h *Handler) Line(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || n < 1 {
		h.writeError(w, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "line must be a positive integer"))
		return
	}
	text, err := h.lines.LineText(n - 1)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lineResponse{Line: n, Text: text})
}

func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.lines.Stats())
}

// IndexTerms lists indexed words with their line counts, sorted by word.
// An optional prefix parameter narrows the list.
func (h *Handler) IndexTerms(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	entries := h.lines.Snapshot()
	if prefix != "" {
		entries = slices.DeleteFunc(entries, func(e index.TermEntry) bool {
			return !strings.HasPrefix(e.Term, prefix)
		})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"count": len(entries), "terms": entries})
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": strconv.FormatFloat(hitRate, 'f', 1, 64) + "%",
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "caching is disabled"})
		return
	}
	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "query failed"
	}
	h.writeJSON(w, status, map[string]string{"error": message})
}
