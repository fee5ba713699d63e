package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/napolitain/solver-blueprint/internal/models"
)

const (
	// Namespace for all metrics
	namespace = "blueprint"
	// Subsystem for search metrics
	subsystem = "search"
)

// Collector records search statistics for every evaluated blueprint
type Collector struct {
	solvesTotal     *prometheus.CounterVec
	solveDuration   *prometheus.HistogramVec
	nodesTotal      *prometheus.CounterVec
	prunedTotal     *prometheus.CounterVec
	memoHitsTotal   *prometheus.CounterVec
	bestYield       *prometheus.GaugeVec
	improvementsSum *prometheus.CounterVec
}

// NewCollector creates the collector and registers it with reg
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solves_total",
				Help:      "Blueprint evaluations by horizon and source",
			},
			[]string{"horizon", "cached"},
		),

		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duration_seconds",
				Help:      "Wall time of a single blueprint search",
				Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"horizon"},
		),

		nodesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "nodes_total",
				Help:      "Search states expanded",
			},
			[]string{"horizon"},
		),

		prunedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pruned_total",
				Help:      "Search states cut by the yield bound",
			},
			[]string{"horizon"},
		),

		memoHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "memo_hits_total",
				Help:      "Search states answered from the transposition cache",
			},
			[]string{"horizon"},
		),

		bestYield: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "best_yield",
				Help:      "Optimal terminal yield of the last evaluation",
			},
			[]string{"horizon"},
		),

		improvementsSum: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "improvements_total",
				Help:      "Times the running best increased during searches",
			},
			[]string{"horizon"},
		),
	}

	for _, col := range []prometheus.Collector{
		c.solvesTotal,
		c.solveDuration,
		c.nodesTotal,
		c.prunedTotal,
		c.memoHitsTotal,
		c.bestYield,
		c.improvementsSum,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RecordResult records one finished evaluation
func (c *Collector) RecordResult(res models.Result) {
	horizon := strconv.Itoa(res.Horizon)

	c.solvesTotal.WithLabelValues(horizon, strconv.FormatBool(res.Cached)).Inc()
	c.bestYield.WithLabelValues(horizon).Set(float64(res.Yield))

	if res.Cached {
		return
	}

	c.solveDuration.WithLabelValues(horizon).Observe(time.Duration(res.DurationNS).Seconds())
	c.nodesTotal.WithLabelValues(horizon).Add(float64(res.Stats.Nodes))
	c.prunedTotal.WithLabelValues(horizon).Add(float64(res.Stats.Pruned))
	c.memoHitsTotal.WithLabelValues(horizon).Add(float64(res.Stats.MemoHits))
	c.improvementsSum.WithLabelValues(horizon).Add(float64(res.Stats.Improvements))
}
