package schedule

import (
	"errors"
	"slices"
	"testing"

	"github.com/napolitain/solver-blueprint/internal/models"
)

func TestSolveReferenceBlueprints(t *testing.T) {
	bps := referenceBlueprints()

	tests := []struct {
		name    string
		bp      *models.Blueprint
		horizon int
		want    int
	}{
		{"blueprint 1 at 24", bps[0], 24, 9},
		{"blueprint 2 at 24", bps[1], 24, 12},
		{"blueprint 1 at 32", bps[0], 32, 56},
		{"blueprint 2 at 32", bps[1], 32, 62},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.horizon > 24 && testing.Short() {
				t.Skip("skipping long horizon in short mode")
			}
			if got := Solve(tt.bp, tt.horizon); got != tt.want {
				t.Errorf("Solve() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSolveQualityLevels(t *testing.T) {
	sum := 0
	for _, bp := range referenceBlueprints() {
		sum += bp.ID * Solve(bp, 24)
	}
	if sum != 33 {
		t.Errorf("quality sum = %d, want 33", sum)
	}
}

func TestSolveShortHorizons(t *testing.T) {
	for _, bp := range referenceBlueprints() {
		for _, h := range []int{-5, 0, 1, 2} {
			res := NewSolver(bp, h, Options{}).Solve()
			if res.Yield != 0 {
				t.Errorf("blueprint %d horizon %d: yield %d, want 0", bp.ID, h, res.Yield)
			}
			if res.Horizon < 0 {
				t.Errorf("horizon %d reported as %d", h, res.Horizon)
			}
			if len(res.Schedule) != 0 {
				t.Errorf("horizon %d: unexpected schedule %v", h, res.Schedule)
			}
		}
	}
}

// A terminal producer with no cost can be built on minute 1 and yields from minute 2 on
func TestSolveFreeTerminal(t *testing.T) {
	bp := models.NewBlueprint(1, 5, 5, 5, 5, 0, 0)

	tests := []struct {
		horizon int
		want    int
	}{
		{1, 0},
		{2, 1},
		{3, 3},
		{4, 6},
		{5, 10},
	}

	for _, tt := range tests {
		if got := Solve(bp, tt.horizon); got != tt.want {
			t.Errorf("horizon %d: got %d, want %d", tt.horizon, got, tt.want)
		}
	}
}

func TestSolveMonotonicInHorizon(t *testing.T) {
	for _, bp := range referenceBlueprints() {
		prev := 0
		for h := 0; h <= 24; h++ {
			got := Solve(bp, h)
			if got < prev {
				t.Errorf("blueprint %d: yield at %d is %d, below %d at %d", bp.ID, h, got, prev, h-1)
			}
			prev = got
		}
	}
}

func TestSolveIdempotent(t *testing.T) {
	bp := referenceBlueprints()[0]
	solver := NewSolver(bp, 24, Options{})

	first := solver.Solve()
	second := solver.Solve()

	if first.Yield != second.Yield {
		t.Errorf("yield changed between runs: %d then %d", first.Yield, second.Yield)
	}
	if !slices.Equal(first.Schedule, second.Schedule) {
		t.Errorf("schedule changed between runs:\n%v\n%v", first.Schedule, second.Schedule)
	}
	if first.Stats != second.Stats {
		t.Errorf("stats changed between runs: %+v then %+v", first.Stats, second.Stats)
	}
}

func TestSolveDeterminism(t *testing.T) {
	bp := referenceBlueprints()[1]
	baseline := NewSolver(bp, 24, Options{}).Solve()

	const iterations = 10
	for i := 1; i < iterations; i++ {
		res := NewSolver(bp, 24, Options{}).Solve()
		if res.Yield != baseline.Yield || !slices.Equal(res.Schedule, baseline.Schedule) {
			t.Fatalf("iteration %d differs from baseline: yield %d vs %d", i, res.Yield, baseline.Yield)
		}
	}
}

func TestScheduleReplaysToYield(t *testing.T) {
	for _, bp := range referenceBlueprints() {
		for _, opts := range []Options{{}, {Memoize: true}, {DisableTerminalGreedy: true}} {
			res := NewSolver(bp, 24, opts).Solve()

			got, err := models.Replay(bp, 24, res.Schedule)
			if err != nil {
				t.Fatalf("blueprint %d: replay failed: %v", bp.ID, err)
			}
			if got != res.Yield {
				t.Errorf("blueprint %d opts %+v: replay %d, reported %d", bp.ID, opts, got, res.Yield)
			}
		}
	}
}

func TestScheduleShape(t *testing.T) {
	bp := referenceBlueprints()[0]
	res := NewSolver(bp, 24, Options{}).Solve()

	if len(res.Schedule) == 0 {
		t.Fatal("expected a non-empty schedule")
	}
	last := 0
	for _, step := range res.Schedule {
		if step.Minute <= last || step.Minute > 24 {
			t.Errorf("step at minute %d after %d", step.Minute, last)
		}
		last = step.Minute
	}
	if !slices.ContainsFunc(res.Schedule, func(s models.BuildStep) bool {
		return s.Producer == models.TerminalProducer
	}) {
		t.Error("a positive yield needs at least one terminal producer")
	}
}

func TestSolveStats(t *testing.T) {
	bp := referenceBlueprints()[0]
	res := NewSolver(bp, 24, Options{}).Solve()

	if res.Stats.Nodes == 0 || res.Stats.Leaves == 0 {
		t.Errorf("expected nodes and leaves to be counted: %+v", res.Stats)
	}
	if res.Stats.Pruned == 0 {
		t.Errorf("expected the bound to cut something at 24: %+v", res.Stats)
	}
	if res.Stats.Improvements == 0 {
		t.Errorf("expected at least one improvement: %+v", res.Stats)
	}
	if res.Stats.MemoHits != 0 {
		t.Errorf("memo hits without memoization: %+v", res.Stats)
	}

	unpruned := NewSolver(bp, 20, Options{DisablePrune: true}).Solve()
	pruned := NewSolver(bp, 20, Options{}).Solve()
	if pruned.Stats.Nodes > unpruned.Stats.Nodes {
		t.Errorf("pruning expanded more nodes: %d > %d", pruned.Stats.Nodes, unpruned.Stats.Nodes)
	}
}

func TestOnImproveStrictlyIncreasing(t *testing.T) {
	bp := referenceBlueprints()[1]
	var seen []int
	opts := Options{OnImprove: func(y int) { seen = append(seen, y) }}

	res := NewSolver(bp, 24, opts).Solve()

	if len(seen) == 0 {
		t.Fatal("OnImprove never called")
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Errorf("improvement %d (%d) not above %d", i, seen[i], seen[i-1])
		}
	}
	if seen[len(seen)-1] != res.Yield {
		t.Errorf("last improvement %d, yield %d", seen[len(seen)-1], res.Yield)
	}
}

func TestMemoize(t *testing.T) {
	for _, bp := range referenceBlueprints() {
		solver := NewSolver(bp, 24, Options{Memoize: true})
		res := solver.Solve()

		if want := Solve(bp, 24); res.Yield != want {
			t.Errorf("blueprint %d: memoized %d, plain %d", bp.ID, res.Yield, want)
		}
		if solver.MemoSize() == 0 {
			t.Errorf("blueprint %d: memo left empty", bp.ID)
		}
	}

	if NewSolver(referenceBlueprints()[0], 24, Options{}).MemoSize() != 0 {
		t.Error("memo allocated without Memoize")
	}
}

func TestCapsOverride(t *testing.T) {
	bp := referenceBlueprints()[0]

	// No secondary producers means no tertiary, so no terminal either
	noSecondary := &Caps{Primary: 4, Secondary: 0, Tertiary: 7}
	if got := NewSolver(bp, 24, Options{Caps: noSecondary}).Solve().Yield; got != 0 {
		t.Errorf("yield %d without secondary producers, want 0", got)
	}

	tight := &Caps{Primary: 1, Secondary: 2, Tertiary: 2}
	if got, full := NewSolver(bp, 24, Options{Caps: tight}).Solve().Yield, Solve(bp, 24); got > full {
		t.Errorf("tighter caps raised the yield: %d > %d", got, full)
	}
}

func TestDefaultCaps(t *testing.T) {
	caps := DefaultCaps(referenceBlueprints()[0])
	want := Caps{Primary: 4, Secondary: 14, Tertiary: 7}
	if caps != want {
		t.Errorf("DefaultCaps() = %+v, want %+v", caps, want)
	}
	if !caps.Allows(0, 3) || caps.Allows(0, 4) {
		t.Error("primary cap should allow 3 owned and stop at 4")
	}
	if caps.Limit(3) != 0 {
		t.Error("terminal slot has no cap")
	}
}

func TestStateTransition(t *testing.T) {
	bp := referenceBlueprints()[0]
	s := NewState()

	for range 4 {
		s = s.step()
	}
	if !s.CanBuild(bp, models.PrimaryProducer) {
		t.Fatalf("4 primary should afford a primary producer: %+v", s)
	}

	built := s.step().build(bp, models.PrimaryProducer)
	if built.Minute != 5 || built.Stock[0] != 1 || built.Producers[0] != 2 {
		t.Errorf("unexpected state after building: %+v", built)
	}
	if s.Minute != 4 || s.Producers[0] != 1 {
		t.Errorf("transition mutated its receiver: %+v", s)
	}
}

func TestReplayRejectsBadSchedules(t *testing.T) {
	bp := referenceBlueprints()[0]

	tests := []struct {
		name  string
		steps []models.BuildStep
		want  error
	}{
		{"unaffordable", []models.BuildStep{{Minute: 1, Producer: models.PrimaryProducer}}, models.ErrUnaffordable},
		{"out of order", []models.BuildStep{
			{Minute: 5, Producer: models.SecondaryProducer},
			{Minute: 3, Producer: models.SecondaryProducer},
		}, models.ErrStepOrder},
		{"beyond horizon", []models.BuildStep{{Minute: 30, Producer: models.SecondaryProducer}}, models.ErrStepHorizon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := models.Replay(bp, 24, tt.steps)
			if !errors.Is(err, tt.want) {
				t.Errorf("Replay() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// Counters must not wrap once the terminal stock passes 16 bits
func TestSolveLongHorizon(t *testing.T) {
	bp := models.NewBlueprint(1, 0, 0, 0, 0, 0, 0)

	prev := 0
	for _, h := range []int{362, 363, 400} {
		res := NewSolver(bp, h, Options{}).Solve()
		want := h * (h - 1) / 2
		if res.Yield != want {
			t.Errorf("horizon %d: got %d, want %d", h, res.Yield, want)
		}
		if res.Yield < prev {
			t.Errorf("horizon %d: yield %d dropped below %d", h, res.Yield, prev)
		}
		prev = res.Yield

		replayed, err := models.Replay(bp, h, res.Schedule)
		if err != nil {
			t.Fatalf("horizon %d: replay failed: %v", h, err)
		}
		if replayed != want {
			t.Errorf("horizon %d: replay %d, want %d", h, replayed, want)
		}
	}
}
