package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-hypercube/pkg/types"
)

func TestMetrics_Observe(t *testing.T) {
	m := New("101")

	m.ObserveRequest("CREATE", RouteLocal, "Topic created", time.Millisecond)
	m.ObserveRequest("CREATE", RouteLocal, "Topic created", time.Millisecond)
	m.ObserveRequest("PULL", RouteForwarded, "Topic not found", time.Millisecond)
	m.ObserveForward(ForwardOK)
	m.ObserveForward(ForwardFailed)
	m.TopicCreated()
	m.TopicCreated()
	m.TopicDeleted()
	m.MalformedRequest()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("CREATE", RouteLocal, "Topic created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("PULL", RouteForwarded, "Topic not found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ForwardAttempts.WithLabelValues(ForwardFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Topics))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Malformed))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("PULL", RouteLocal, "Subscribed", time.Second)
		m.ObserveForward(ForwardOK)
		m.TopicCreated()
		m.TopicDeleted()
		m.MalformedRequest()
		assert.NoError(t, m.Register(prometheus.NewRegistry()))
	})
}

// 同一 Registry 可容纳多个节点的指标
func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	a, b := New("000"), New("001")
	require.NoError(t, a.Register(reg))
	require.NoError(t, b.Register(reg))
	require.NoError(t, a.Register(reg))

	a.MalformedRequest()
	b.MalformedRequest()
	b.MalformedRequest()

	expected := `
# HELP hypercube_malformed_requests_total Requests rejected before execution.
# TYPE hypercube_malformed_requests_total counter
hypercube_malformed_requests_total{node="000"} 1
hypercube_malformed_requests_total{node="001"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "hypercube_malformed_requests_total"))
}

func TestModule(t *testing.T) {
	reg := prometheus.NewRegistry()

	var m *Metrics
	app := fxtest.New(t,
		fx.Supply(types.MustNodeAddress(0b110, 3)),
		fx.Provide(func() prometheus.Registerer { return reg }),
		Module(),
		fx.Populate(&m),
	)
	app.RequireStart()

	m.TopicCreated()
	n, err := testutil.GatherAndCount(reg, "hypercube_topics")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	app.RequireStop()

	n, err = testutil.GatherAndCount(reg, "hypercube_topics")
	require.NoError(t, err)
	assert.Zero(t, n)
}
