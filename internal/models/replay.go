package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnaffordable = errors.New("producer not affordable")
	ErrStepOrder    = errors.New("build steps out of order")
	ErrStepHorizon  = errors.New("build step outside horizon")
)

// Replay simulates a schedule minute by minute and returns the terminal stock at the horizon.
// At most one producer may be built per minute; a producer built at minute m starts
// yielding at minute m+1.
func Replay(bp *Blueprint, horizon int, steps []BuildStep) (int, error) {
	var stock, producers [NumResources]int
	producers[0] = 1

	next := 0
	for minute := 1; minute <= horizon; minute++ {
		built := -1
		if next < len(steps) && steps[next].Minute == minute {
			step := steps[next]
			cost := bp.Cost(step.Producer)
			if !cost.AffordableWith(stock) {
				return 0, fmt.Errorf("minute %d %s (%s): %w", minute, step.Producer, cost, ErrUnaffordable)
			}
			stock[0] -= cost.Primary
			stock[1] -= cost.Secondary
			stock[2] -= cost.Tertiary
			built = step.Producer.Index()
			next++
			if next < len(steps) && steps[next].Minute <= minute {
				return 0, fmt.Errorf("minute %d: %w", steps[next].Minute, ErrStepOrder)
			}
		} else if next < len(steps) && steps[next].Minute < minute {
			return 0, fmt.Errorf("minute %d: %w", steps[next].Minute, ErrStepOrder)
		}

		for i := range stock {
			stock[i] += producers[i]
		}
		if built >= 0 {
			producers[built]++
		}
	}

	if next < len(steps) {
		return 0, fmt.Errorf("minute %d beyond %d: %w", steps[next].Minute, horizon, ErrStepHorizon)
	}
	return stock[3], nil
}
