package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/solver-blueprint/internal/models"
)

func TestCollectorRecordsSearchStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.RecordResult(models.Result{
		BlueprintID: 1,
		Horizon:     24,
		Yield:       9,
		Stats:       models.SearchStats{Nodes: 100, Pruned: 40, Improvements: 3},
		DurationNS:  int64(2 * time.Millisecond),
	})
	c.RecordResult(models.Result{BlueprintID: 2, Horizon: 24, Yield: 12, Cached: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.solvesTotal.WithLabelValues("24", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.solvesTotal.WithLabelValues("24", "true")))
	assert.Equal(t, 100.0, testutil.ToFloat64(c.nodesTotal.WithLabelValues("24")))
	assert.Equal(t, 40.0, testutil.ToFloat64(c.prunedTotal.WithLabelValues("24")))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.bestYield.WithLabelValues("24")))
}

// Blueprint ids come from clients, so they must not become label values
func TestCollectorLabelsIndependentOfBlueprint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	for id := 1; id <= 50; id++ {
		c.RecordResult(models.Result{BlueprintID: id, Horizon: 24, Yield: id % 7})
	}

	assert.Equal(t, 1, testutil.CollectAndCount(c.bestYield))
	assert.Equal(t, 1, testutil.CollectAndCount(c.solvesTotal))
}

func TestNewCollectorDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}
