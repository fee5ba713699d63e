package schedule

import "github.com/napolitain/solver-blueprint/internal/models"

// Caps bounds how many producers of each non-terminal kind the search will build.
// Building past the highest per-minute consumption of a resource can never pay off,
// because at most one producer is built per minute.
type Caps struct {
	Primary   int
	Secondary int
	Tertiary  int
}

// DefaultCaps derives the caps from the blueprint:
// primary = MaxPrimaryCost, secondary = the tertiary producer's secondary cost,
// tertiary = the terminal producer's tertiary cost.
func DefaultCaps(bp *models.Blueprint) Caps {
	return Caps{
		Primary:   bp.MaxPrimaryCost,
		Secondary: bp.TertiaryProducer.Secondary,
		Tertiary:  bp.TerminalProducer.Tertiary,
	}
}

// Limit returns the cap for the producer kind at slot i (0..2)
func (c Caps) Limit(i int) int {
	switch i {
	case 0:
		return c.Primary
	case 1:
		return c.Secondary
	case 2:
		return c.Tertiary
	}
	return 0
}

// Allows reports whether one more producer may be built when owned are already present
func (c Caps) Allows(i int, owned int) bool {
	return owned < c.Limit(i)
}
