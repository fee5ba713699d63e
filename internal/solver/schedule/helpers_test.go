package schedule

import (
	"github.com/napolitain/solver-blueprint/internal/models"
)

// referenceBlueprints are the two blueprints from the puzzle statement
func referenceBlueprints() []*models.Blueprint {
	return []*models.Blueprint{
		models.NewBlueprint(1, 4, 2, 3, 14, 2, 7),
		models.NewBlueprint(2, 2, 3, 3, 8, 3, 12),
	}
}

// cheapBlueprints have small costs so that exhaustive search stays tractable
func cheapBlueprints() []*models.Blueprint {
	return []*models.Blueprint{
		models.NewBlueprint(1, 1, 1, 1, 1, 1, 1),
		models.NewBlueprint(2, 2, 1, 1, 2, 1, 2),
		models.NewBlueprint(3, 2, 2, 2, 2, 2, 2),
		models.NewBlueprint(4, 3, 1, 2, 3, 1, 2),
		models.NewBlueprint(5, 1, 2, 2, 1, 3, 1),
		models.NewBlueprint(6, 4, 2, 3, 4, 2, 3),
		models.NewBlueprint(7, 2, 3, 1, 3, 2, 2),
		models.NewBlueprint(8, 1, 1, 2, 2, 2, 3),
	}
}

// exhaustive enumerates every reachable state minute by minute, with no pruning
// of any kind, and returns the best terminal stock at the horizon.
func exhaustive(bp *models.Blueprint, horizon int) int {
	frontier := map[State]struct{}{NewState(): {}}

	for minute := 0; minute < horizon; minute++ {
		next := make(map[State]struct{}, len(frontier)*2)
		for s := range frontier {
			next[s.step()] = struct{}{}
			for _, pt := range models.AllProducerTypes() {
				if s.CanBuild(bp, pt) {
					next[s.step().build(bp, pt)] = struct{}{}
				}
			}
		}
		frontier = next
	}

	best := 0
	for s := range frontier {
		best = max(best, s.Terminal())
	}
	return best
}

// only returns unrestricted options with one heuristic switched back on
func only(enable func(*Options)) Options {
	opts := Unrestricted()
	enable(&opts)
	return opts
}
