package models

import "fmt"

// ResourceType represents the four resources a blueprint deals in
type ResourceType string

const (
	Primary   ResourceType = "primary"
	Secondary ResourceType = "secondary"
	Tertiary  ResourceType = "tertiary"
	Terminal  ResourceType = "terminal"
)

// NumResources is the number of resource kinds (and producer kinds)
const NumResources = 4

// AllResourceTypes returns all resource types in index order
func AllResourceTypes() []ResourceType {
	return []ResourceType{Primary, Secondary, Tertiary, Terminal}
}

// Index returns the array slot used for this resource in stock/producer arrays
// (0=Primary, 1=Secondary, 2=Tertiary, 3=Terminal), or -1 if unknown.
func (rt ResourceType) Index() int {
	switch rt {
	case Primary:
		return 0
	case Secondary:
		return 1
	case Tertiary:
		return 2
	case Terminal:
		return 3
	}
	return -1
}

// ProducerType represents a unit kind that yields one resource per minute once built
type ProducerType string

const (
	PrimaryProducer   ProducerType = "primary_producer"
	SecondaryProducer ProducerType = "secondary_producer"
	TertiaryProducer  ProducerType = "tertiary_producer"
	TerminalProducer  ProducerType = "terminal_producer"
)

// AllProducerTypes returns all producer types in index order
func AllProducerTypes() []ProducerType {
	return []ProducerType{PrimaryProducer, SecondaryProducer, TertiaryProducer, TerminalProducer}
}

// Output returns the resource this producer yields
func (pt ProducerType) Output() ResourceType {
	switch pt {
	case PrimaryProducer:
		return Primary
	case SecondaryProducer:
		return Secondary
	case TertiaryProducer:
		return Tertiary
	case TerminalProducer:
		return Terminal
	}
	return ""
}

// Index returns the array slot of the resource this producer yields
func (pt ProducerType) Index() int {
	return pt.Output().Index()
}

// ProducerAt returns the producer type stored at array slot i
func ProducerAt(i int) ProducerType {
	return AllProducerTypes()[i]
}

// Costs represents the resources needed to build one producer.
// The terminal resource is never spent, so it has no field.
type Costs struct {
	Primary   int
	Secondary int
	Tertiary  int
}

// Get returns the cost for a specific resource type
func (c Costs) Get(rt ResourceType) int {
	switch rt {
	case Primary:
		return c.Primary
	case Secondary:
		return c.Secondary
	case Tertiary:
		return c.Tertiary
	}
	return 0
}

// AffordableWith reports whether the given stock (indexed by ResourceType.Index) covers c
func (c Costs) AffordableWith(stock [NumResources]int) bool {
	return stock[0] >= c.Primary &&
		stock[1] >= c.Secondary &&
		stock[2] >= c.Tertiary
}

// String formats the costs like "P:4 S:0 T:0"
func (c Costs) String() string {
	return fmt.Sprintf("P:%d S:%d T:%d", c.Primary, c.Secondary, c.Tertiary)
}

// Blueprint is the immutable cost table for one evaluation.
// Build it with NewBlueprint so MaxPrimaryCost is populated.
type Blueprint struct {
	ID int

	PrimaryProducer   Costs // primary only
	SecondaryProducer Costs // primary only
	TertiaryProducer  Costs // primary + secondary
	TerminalProducer  Costs // primary + tertiary

	// MaxPrimaryCost is the highest primary cost of any producer. No schedule can spend
	// more primary per minute than this, so it caps the primary producer count.
	MaxPrimaryCost int
}

// NewBlueprint creates a blueprint from the seven numbers of a record, in input order
func NewBlueprint(id, primaryCost, secondaryCost, tertiaryPrimary, tertiarySecondary, terminalPrimary, terminalTertiary int) *Blueprint {
	bp := &Blueprint{
		ID:                id,
		PrimaryProducer:   Costs{Primary: primaryCost},
		SecondaryProducer: Costs{Primary: secondaryCost},
		TertiaryProducer:  Costs{Primary: tertiaryPrimary, Secondary: tertiarySecondary},
		TerminalProducer:  Costs{Primary: terminalPrimary, Tertiary: terminalTertiary},
	}
	bp.MaxPrimaryCost = max(primaryCost, secondaryCost, tertiaryPrimary, terminalPrimary)
	return bp
}

// Cost returns the build cost of a producer type
func (b *Blueprint) Cost(pt ProducerType) Costs {
	switch pt {
	case PrimaryProducer:
		return b.PrimaryProducer
	case SecondaryProducer:
		return b.SecondaryProducer
	case TertiaryProducer:
		return b.TertiaryProducer
	case TerminalProducer:
		return b.TerminalProducer
	}
	return Costs{}
}

// Fields returns the seven record numbers in input order
func (b *Blueprint) Fields() [7]int {
	return [7]int{
		b.ID,
		b.PrimaryProducer.Primary,
		b.SecondaryProducer.Primary,
		b.TertiaryProducer.Primary,
		b.TertiaryProducer.Secondary,
		b.TerminalProducer.Primary,
		b.TerminalProducer.Tertiary,
	}
}

// Fingerprint identifies the cost table independently of the ID
func (b *Blueprint) Fingerprint() string {
	f := b.Fields()
	return fmt.Sprintf("%d-%d-%d.%d-%d.%d", f[1], f[2], f[3], f[4], f[5], f[6])
}

// BuildStep records a producer built at a given minute (1-based, the minute it was decided in)
type BuildStep struct {
	Minute   int
	Producer ProducerType
}

// SearchStats summarizes how much of the tree a search explored
type SearchStats struct {
	Nodes        int // states expanded
	Leaves       int // states reaching the horizon
	Pruned       int // states cut by the yield bound
	MemoHits     int // states answered from the cache
	Improvements int // times the running best increased
}

// Result represents the outcome of one blueprint search
type Result struct {
	BlueprintID int
	Horizon     int
	Yield       int
	Schedule    []BuildStep // one optimal schedule, empty when nothing was built
	Stats       SearchStats
	DurationNS  int64
	Cached      bool // served from the result store instead of searched
}

// Quality returns id × yield
func (r Result) Quality() int {
	return r.BlueprintID * r.Yield
}
