package forwarding

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/membership"
	"github.com/dep2p/go-hypercube/internal/core/metrics"
	"github.com/dep2p/go-hypercube/internal/core/topology"
	"github.com/dep2p/go-hypercube/internal/core/transport/tcp"
	"github.com/dep2p/go-hypercube/internal/protocol/wire"
	"github.com/dep2p/go-hypercube/internal/util/logger"
	"github.com/dep2p/go-hypercube/pkg/types"
)

var log = logger.Logger("forwarding")

// Option 转发器选项
type Option func(*Forwarder)

// WithClock 设置计时用的时钟
func WithClock(c clock.Clock) Option {
	return func(f *Forwarder) {
		if c != nil {
			f.clock = c
		}
	}
}

// WithMetrics 设置指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Forwarder) {
		f.metrics = m
	}
}

// WithMaxResponseSize 限制下游响应大小，<= 0 为不限
//
// 覆盖 cfg.MaxResponseSize。
func WithMaxResponseSize(n int64) Option {
	return func(f *Forwarder) {
		f.maxResponse = n
	}
}

// Forwarder 单个节点的转发器
type Forwarder struct {
	self      types.NodeAddress
	members   membership.Membership
	transport *tcp.Transport
	cfg       config.ForwardingConfig

	clock       clock.Clock
	metrics     *metrics.Metrics
	maxResponse int64
}

// New 创建转发器
func New(self types.NodeAddress, members membership.Membership, t *tcp.Transport, cfg config.ForwardingConfig, opts ...Option) *Forwarder {
	f := &Forwarder{
		self:        self,
		members:     members,
		transport:   t,
		cfg:         cfg,
		clock:       clock.New(),
		maxResponse: cfg.MaxResponseSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Self 返回本节点地址
func (f *Forwarder) Self() types.NodeAddress {
	return f.self
}

// Budget 返回前往 owner 的单次尝试时间预算
func (f *Forwarder) Budget(owner types.NodeAddress) time.Duration {
	return f.cfg.Budget(topology.Distance(f.self, owner))
}

// Forward 把 req 转发给 owner 方向的邻居，返回下游响应
//
// 永远返回一个响应：全部尝试失败时为 StatusForwardingFailed。
// owner 就是本节点时不应调用。
func (f *Forwarder) Forward(ctx context.Context, owner types.NodeAddress, req wire.Request) wire.Response {
	candidates := topology.Candidates(f.self, owner)
	if len(candidates) == 0 {
		log.Error("转发目标是本节点", "node", f.self, "owner", owner, "id", req.ID)
		return wire.StatusResponse(types.StatusForwardingFailed)
	}
	if len(candidates) > f.cfg.MaxAttempts {
		candidates = candidates[:f.cfg.MaxAttempts]
	}

	budget := f.Budget(owner)
	for i, next := range candidates {
		resp, err := f.attempt(ctx, next, req, budget)
		if err == nil {
			f.metrics.ObserveForward(metrics.ForwardOK)
			log.Debug("转发成功",
				"node", f.self, "next", next, "owner", owner,
				"attempt", i+1, "id", req.ID, "response", resp)
			return resp
		}

		f.metrics.ObserveForward(metrics.ForwardFailed)
		log.Warn("转发尝试失败",
			"node", f.self, "next", next, "owner", owner,
			"attempt", i+1, "budget", budget, "id", req.ID, "error", err)

		// 调用方已放弃，不再尝试
		if ctx.Err() != nil {
			break
		}
	}

	f.metrics.ObserveForward(metrics.ForwardExhausted)
	log.Warn("转发失败，候选已耗尽",
		"node", f.self, "owner", owner, "command", req.Command.Verb(),
		"topic", req.Command.Topic(), "id", req.ID)
	return wire.StatusResponse(types.StatusForwardingFailed)
}

// attempt 在 budget 内与 next 完成一次交换
func (f *Forwarder) attempt(ctx context.Context, next types.NodeAddress, req wire.Request, budget time.Duration) (wire.Response, error) {
	addr, err := f.members.Resolve(next)
	if err != nil {
		return wire.Response{}, err
	}

	actx, cancel := f.clock.WithTimeout(ctx, budget)
	defer cancel()

	return Exchange(actx, f.transport, addr, req, f.maxResponse)
}
