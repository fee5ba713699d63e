package schedule

import (
	"log/slog"
	"time"

	"github.com/napolitain/solver-blueprint/internal/models"
)

// Options toggles the individual search heuristics. The zero value is the full
// branch-and-bound search with the blueprint-derived caps.
type Options struct {
	// Caps overrides the blueprint-derived saturation caps
	Caps *Caps

	DisableCaps           bool
	DisablePrune          bool
	DisableTerminalGreedy bool
	DisableDominance      bool

	// Memoize enables the dominance-checked transposition cache
	Memoize bool

	// Logger receives debug output about improvements. Nil discards.
	Logger *slog.Logger

	// OnImprove is called every time the running best increases
	OnImprove func(yield int)
}

// Unrestricted returns options with every pruning heuristic disabled
func Unrestricted() Options {
	return Options{
		DisableCaps:           true,
		DisablePrune:          true,
		DisableTerminalGreedy: true,
		DisableDominance:      true,
	}
}

// Solver runs a depth-first branch-and-bound search for a single blueprint.
// A Solver holds per-search state and must not be shared between goroutines.
type Solver struct {
	bp      *models.Blueprint
	horizon int
	opts    Options
	caps    Caps
	logger  *slog.Logger

	best     int
	path     []models.BuildStep
	bestPath []models.BuildStep
	memo     map[memoKey]memoEntry
	stats    models.SearchStats
}

// NewSolver creates a solver. Negative horizons are treated as zero.
func NewSolver(bp *models.Blueprint, horizon int, opts Options) *Solver {
	if horizon < 0 {
		horizon = 0
	}

	caps := DefaultCaps(bp)
	if opts.Caps != nil {
		caps = *opts.Caps
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Solver{
		bp:      bp,
		horizon: horizon,
		opts:    opts,
		caps:    caps,
		logger:  logger,
	}
}

// Solve returns the maximum terminal yield at the horizon along with one schedule
// achieving it. Calling Solve again starts a fresh search.
func (s *Solver) Solve() *models.Result {
	start := time.Now()

	s.best = 0
	s.stats = models.SearchStats{}
	s.path = make([]models.BuildStep, 0, s.horizon)
	s.bestPath = nil
	if s.opts.Memoize {
		s.memo = make(map[memoKey]memoEntry)
	} else {
		s.memo = nil
	}

	root := s.search(NewState(), allowAll)

	// Memo hits can report a value found on another path; the running best always
	// holds the leaf that produced it.
	yield := max(root, s.best)

	elapsed := time.Since(start)
	s.logger.Debug("search finished",
		"blueprint", s.bp.ID,
		"horizon", s.horizon,
		"yield", yield,
		"nodes", s.stats.Nodes,
		"pruned", s.stats.Pruned,
		"dur", elapsed.Round(time.Microsecond),
	)

	schedule := make([]models.BuildStep, len(s.bestPath))
	copy(schedule, s.bestPath)

	return &models.Result{
		BlueprintID: s.bp.ID,
		Horizon:     s.horizon,
		Yield:       yield,
		Schedule:    schedule,
		Stats:       s.stats,
		DurationNS:  elapsed.Nanoseconds(),
	}
}

// Solve is a convenience wrapper returning only the optimum
func Solve(bp *models.Blueprint, horizon int) int {
	return NewSolver(bp, horizon, Options{}).Solve().Yield
}

// intermediates are the producer kinds governed by dominance flags and caps, in flag order
var intermediates = [3]models.ProducerType{
	models.PrimaryProducer,
	models.SecondaryProducer,
	models.TertiaryProducer,
}

func (s *Solver) search(state State, can flags) int {
	s.stats.Nodes++

	if state.Minute >= s.horizon {
		s.leaf(state)
		return state.Terminal()
	}

	key := memoKey{Stock: state.Stock, Producers: state.Producers, Flags: can}
	if s.memo != nil {
		if e, ok := s.memo[key]; ok && state.Minute >= e.minute {
			s.stats.MemoHits++
			return e.result
		}
	}

	if !s.opts.DisablePrune && s.bound(state) <= s.best {
		s.stats.Pruned++
		return 0
	}

	result := 0
	canTerminal := state.CanBuild(s.bp, models.TerminalProducer)

	if canTerminal && !s.opts.DisableTerminalGreedy {
		// Building a terminal producer as soon as possible is never worse than waiting
		result = s.branch(state, models.TerminalProducer)
	} else {
		if canTerminal {
			result = max(result, s.branch(state, models.TerminalProducer))
		}

		next := allowAll
		for i, pt := range intermediates {
			if !state.CanBuild(s.bp, pt) {
				continue
			}
			// Affordable but skipped: building it after waiting is dominated
			next[i] = false

			if !can[i] && !s.opts.DisableDominance {
				continue
			}
			if !s.opts.DisableCaps && !s.caps.Allows(i, state.Producers[i]) {
				continue
			}
			result = max(result, s.branch(state, pt))
		}

		if s.opts.DisableDominance {
			next = allowAll
		}
		result = max(result, s.search(state.step(), next))
	}

	if s.memo != nil {
		if e, ok := s.memo[key]; !ok || state.Minute < e.minute || (state.Minute == e.minute && result > e.result) {
			s.memo[key] = memoEntry{minute: state.Minute, result: result}
		}
	}

	return result
}

// branch builds pt this minute and explores the resulting subtree
func (s *Solver) branch(state State, pt models.ProducerType) int {
	s.path = append(s.path, models.BuildStep{Minute: state.Minute + 1, Producer: pt})
	result := s.search(state.step().build(s.bp, pt), allowAll)
	s.path = s.path[:len(s.path)-1]
	return result
}

// bound is the optimistic terminal total if a terminal producer were added every
// remaining minute: remaining*owned + (0 + 1 + ... + remaining-1).
func (s *Solver) bound(state State) int {
	remaining := s.horizon - state.Minute
	return state.Terminal() + remaining*state.Producers[3] + remaining*(remaining-1)/2
}

func (s *Solver) leaf(state State) {
	s.stats.Leaves++

	yield := state.Terminal()
	if yield <= s.best {
		return
	}

	s.best = yield
	s.stats.Improvements++
	s.bestPath = append(s.bestPath[:0], s.path...)

	s.logger.Debug("improved", "blueprint", s.bp.ID, "yield", yield)
	if s.opts.OnImprove != nil {
		s.opts.OnImprove(yield)
	}
}
