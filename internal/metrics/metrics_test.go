package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.PagesFetched.Inc()
	m.RowsWritten.Add(42)
	m.RowFailures.WithLabelValues("No Event Found").Inc()
	m.RowFailures.WithLabelValues("No Event Found").Inc()
	m.RowFailures.WithLabelValues("Data For Past Month").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PagesFetched))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.RowsWritten))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowFailures.WithLabelValues("No Event Found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowFailures.WithLabelValues("Data For Past Month")))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.RowsWritten.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RowsWritten))
}
