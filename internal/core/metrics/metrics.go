package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hypercube"

// 请求的处理路径
const (
	RouteLocal     = "local"
	RouteForwarded = "forwarded"
)

// 单次转发尝试的结果
const (
	ForwardOK        = "ok"
	ForwardFailed    = "failed"
	ForwardExhausted = "exhausted"
)

// Metrics 单个节点的指标
//
// nil *Metrics 的所有方法都是空操作。
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ForwardAttempts *prometheus.CounterVec
	Topics          prometheus.Gauge
	Malformed       prometheus.Counter
}

// New 创建节点 node 的指标
func New(node string) *Metrics {
	labels := prometheus.Labels{"node": node}

	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "requests_total",
			Help:        "Requests served, by verb, route and response status.",
			ConstLabels: labels,
		}, []string{"verb", "route", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "request_duration_seconds",
			Help:        "Time from reading a request to writing its response.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1e-4, 4, 10),
		}, []string{"verb", "route"}),

		ForwardAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "forward_attempts_total",
			Help:        "Forwarding attempts towards topic owners, by result.",
			ConstLabels: labels,
		}, []string{"result"}),

		Topics: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "topics",
			Help:        "Topics currently owned by this node.",
			ConstLabels: labels,
		}),

		Malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "malformed_requests_total",
			Help:        "Requests rejected before execution.",
			ConstLabels: labels,
		}),
	}
}

// Collectors 返回全部收集器
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Requests,
		m.RequestDuration,
		m.ForwardAttempts,
		m.Topics,
		m.Malformed,
	}
}

// Register 注册到 reg，已注册的收集器视为成功
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if m == nil || reg == nil {
		return nil
	}
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// Unregister 从 reg 注销
func (m *Metrics) Unregister(reg prometheus.Registerer) {
	if m == nil || reg == nil {
		return
	}
	for _, c := range m.Collectors() {
		reg.Unregister(c)
	}
}

// ObserveRequest 记录一次完成的请求
func (m *Metrics) ObserveRequest(verb, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(verb, route, status).Inc()
	m.RequestDuration.WithLabelValues(verb, route).Observe(d.Seconds())
}

// ObserveForward 记录一次转发尝试
func (m *Metrics) ObserveForward(result string) {
	if m == nil {
		return
	}
	m.ForwardAttempts.WithLabelValues(result).Inc()
}

// TopicCreated 本节点新增一个主题
func (m *Metrics) TopicCreated() {
	if m == nil {
		return
	}
	m.Topics.Inc()
}

// TopicDeleted 本节点删除一个主题
func (m *Metrics) TopicDeleted() {
	if m == nil {
		return
	}
	m.Topics.Dec()
}

// MalformedRequest 记录一个被拒绝的请求
func (m *Metrics) MalformedRequest() {
	if m == nil {
		return
	}
	m.Malformed.Inc()
}
