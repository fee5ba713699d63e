package schedule

import "github.com/napolitain/solver-blueprint/internal/models"

// State is one node of the search tree. It is passed by value, so sibling
// branches never share stock or producer arrays.
type State struct {
	Minute int

	// Indexed by models.ResourceType.Index: 0=Primary, 1=Secondary, 2=Tertiary, 3=Terminal
	Stock     [models.NumResources]int
	Producers [models.NumResources]int
}

// NewState returns the minute-0 state: empty stock and a single primary producer
func NewState() State {
	var s State
	s.Producers[0] = 1
	return s
}

// CanBuild reports whether the current stock covers the producer's cost
func (s State) CanBuild(bp *models.Blueprint, pt models.ProducerType) bool {
	return bp.Cost(pt).AffordableWith(s.Stock)
}

// Terminal returns the terminal resource currently held
func (s State) Terminal() int {
	return s.Stock[3]
}

// step advances one minute, adding one unit per owned producer
func (s State) step() State {
	s.Minute++
	for i := range s.Stock {
		s.Stock[i] += s.Producers[i]
	}
	return s
}

// build debits the cost and adds the producer. Called on the stepped state, so the
// new producer only contributes from the following minute on.
func (s State) build(bp *models.Blueprint, pt models.ProducerType) State {
	cost := bp.Cost(pt)
	s.Stock[0] -= cost.Primary
	s.Stock[1] -= cost.Secondary
	s.Stock[2] -= cost.Tertiary
	s.Producers[pt.Index()]++
	return s
}

// flags are the dominance flags for the primary, secondary and tertiary producers.
// A false entry means the kind was affordable last minute and we waited instead.
type flags [3]bool

var allowAll = flags{true, true, true}
