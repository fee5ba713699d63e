package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/napolitain/solver-blueprint/internal/config"
	"github.com/napolitain/solver-blueprint/internal/loader"
	"github.com/napolitain/solver-blueprint/internal/metrics"
	"github.com/napolitain/solver-blueprint/internal/models"
	"github.com/napolitain/solver-blueprint/internal/scoring"
	"github.com/napolitain/solver-blueprint/internal/solver/schedule"
	"github.com/napolitain/solver-blueprint/internal/store"
)

// server serves blueprint searches over HTTP
type server struct {
	cfg       *config.Config
	logger    *slog.Logger
	limiter   *rate.Limiter
	evaluator *scoring.Evaluator
	repo      *store.Repository
}

func newServer(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector, repo *store.Repository) *server {
	evaluator := &scoring.Evaluator{
		Workers: cfg.Solver.Workers,
		Options: schedule.Options{
			DisableCaps:  cfg.Solver.DisableCaps,
			DisablePrune: cfg.Solver.DisablePrune,
			Memoize:      cfg.Solver.Memoize,
		},
		Logger: logger,
	}
	if collector != nil {
		evaluator.Recorder = collector
	}
	if repo != nil {
		evaluator.Cache = repo
	}

	return &server{
		cfg:       cfg,
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.Burst),
		evaluator: evaluator,
		repo:      repo,
	}
}

func (s *server) routes(gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/solve", rateLimited(s.limiter, s.handleSolve))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.cfg.Metrics.Enabled && gatherer != nil {
		mux.Handle("GET "+s.cfg.Metrics.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

type solveReq struct {
	Blueprints string `json:"blueprints"`
	Horizon    int    `json:"horizon,omitempty"`
	Mode       string `json:"mode,omitempty"`
}

type stepResp struct {
	Minute   int    `json:"minute"`
	Producer string `json:"producer"`
}

type resultResp struct {
	ID         int        `json:"id"`
	Yield      int        `json:"yield"`
	Quality    int        `json:"quality"`
	Nodes      int        `json:"nodes"`
	DurationMs float64    `json:"durationMs"`
	Cached     bool       `json:"cached,omitempty"`
	Schedule   []stepResp `json:"schedule"`
}

type solveResp struct {
	Mode    string       `json:"mode,omitempty"`
	Horizon int          `json:"horizon,omitempty"`
	Score   int          `json:"score"`
	Results []resultResp `json:"results,omitempty"`
	RunID   string       `json:"runId,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func (s *server) handleSolve(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)

	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	mode := scoring.ModeQuality
	if req.Mode != "" {
		m, err := scoring.ParseMode(strings.ToLower(strings.TrimSpace(req.Mode)))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	bps, err := loader.ParseString(req.Blueprints)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(bps) == 0 {
		writeError(w, http.StatusBadRequest, "no blueprints given")
		return
	}

	horizon := req.Horizon
	if horizon == 0 {
		horizon = s.cfg.Solver.QualityHorizon
		if mode == scoring.ModeProduct {
			horizon = s.cfg.Solver.ProductHorizon
		}
	}
	if horizon < 0 || horizon > s.cfg.Server.MaxHorizon {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("horizon must be between 1 and %d (0 uses the mode default)", s.cfg.Server.MaxHorizon))
		return
	}
	if mode == scoring.ModeProduct {
		bps = loader.FirstN(bps, s.cfg.Solver.ProductCount)
	}

	start := time.Now()
	results, err := s.evaluator.Evaluate(r.Context(), bps, horizon)
	if err != nil {
		s.logger.Error("evaluation failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	elapsed := time.Since(start)

	resp := solveResp{
		Mode:    string(mode),
		Horizon: horizon,
		Score:   scoring.Score(mode, results, s.cfg.Solver.ProductCount),
		Results: make([]resultResp, 0, len(results)),
	}
	for _, res := range results {
		resp.Results = append(resp.Results, toResultResp(res))
	}

	if s.repo != nil {
		id, err := s.repo.SaveRun(r.Context(), string(mode), horizon, len(bps), resp.Score, elapsed)
		if err != nil {
			s.logger.Warn("failed to record run", "err", err)
		}
		resp.RunID = id
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toResultResp(res models.Result) resultResp {
	out := resultResp{
		ID:         res.BlueprintID,
		Yield:      res.Yield,
		Quality:    res.Quality(),
		Nodes:      res.Stats.Nodes,
		DurationMs: float64(res.DurationNS) / float64(time.Millisecond),
		Cached:     res.Cached,
		Schedule:   make([]stepResp, 0, len(res.Schedule)),
	}
	for _, step := range res.Schedule {
		out.Schedule = append(out.Schedule, stepResp{Minute: step.Minute, Producer: string(step.Producer)})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, solveResp{Error: msg})
}
