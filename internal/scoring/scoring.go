package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/napolitain/solver-blueprint/internal/models"
	"github.com/napolitain/solver-blueprint/internal/solver/schedule"
)

// Mode selects how a batch of blueprints is scored
type Mode string

const (
	// ModeQuality sums id × yield over every blueprint
	ModeQuality Mode = "quality"
	// ModeProduct multiplies the yields of the first few blueprints
	ModeProduct Mode = "product"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeQuality, ModeProduct:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want %s or %s)", s, ModeQuality, ModeProduct)
}

// Recorder receives every finished result
type Recorder interface {
	RecordResult(res models.Result)
}

// Cache stores optimal results keyed by cost table and horizon
type Cache interface {
	Lookup(ctx context.Context, bp *models.Blueprint, horizon int) (models.Result, bool, error)
	Save(ctx context.Context, bp *models.Blueprint, res models.Result) error
}

// Evaluator searches a batch of blueprints concurrently, one search per blueprint
type Evaluator struct {
	// Workers limits concurrent searches; zero or less uses GOMAXPROCS
	Workers int

	Options  schedule.Options
	Recorder Recorder
	Cache    Cache
	Logger   *slog.Logger
}

// Evaluate returns one result per blueprint in input order. Once ctx is done no new
// searches are started and the context error is returned.
func (e *Evaluator) Evaluate(ctx context.Context, bps []*models.Blueprint, horizon int) ([]models.Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]models.Result, len(bps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, bp := range bps {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.evaluateOne(gctx, bp, horizon)
			if err != nil {
				return fmt.Errorf("blueprint %d: %w", bp.ID, err)
			}
			results[i] = res

			logger.Info("blueprint evaluated",
				"blueprint", bp.ID,
				"horizon", res.Horizon,
				"yield", res.Yield,
				"cached", res.Cached,
				"nodes", res.Stats.Nodes,
				"dur", time.Duration(res.DurationNS).Round(time.Microsecond),
			)
			if e.Recorder != nil {
				e.Recorder.RecordResult(res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, bp *models.Blueprint, horizon int) (models.Result, error) {
	if horizon < 0 {
		horizon = 0
	}

	if e.Cache != nil {
		res, found, err := e.Cache.Lookup(ctx, bp, horizon)
		if err != nil {
			return models.Result{}, err
		}
		if found {
			return res, nil
		}
	}

	res := *schedule.NewSolver(bp, horizon, e.Options).Solve()

	if e.Cache != nil {
		if err := e.Cache.Save(ctx, bp, res); err != nil {
			return models.Result{}, err
		}
	}
	return res, nil
}

// QualitySum returns the sum of id × yield over all results
func QualitySum(results []models.Result) int {
	total := 0
	for _, r := range results {
		total += r.Quality()
	}
	return total
}

// TopProduct multiplies the yields of the first n results. Fewer results multiply what
// is there; an empty list gives 1.
func TopProduct(results []models.Result, n int) int {
	product := 1
	for i, r := range results {
		if i >= n {
			break
		}
		product *= r.Yield
	}
	return product
}

// Score reduces results according to mode
func Score(mode Mode, results []models.Result, productCount int) int {
	if mode == ModeProduct {
		return TopProduct(results, productCount)
	}
	return QualitySum(results)
}
