package forwarding

import (
	"context"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/membership"
	"github.com/dep2p/go-hypercube/internal/core/metrics"
	"github.com/dep2p/go-hypercube/internal/core/transport/tcp"
	"github.com/dep2p/go-hypercube/internal/protocol/wire"
	"github.com/dep2p/go-hypercube/pkg/types"
)

// fakeNode 只回应固定响应的下游节点
type fakeNode struct {
	addr string
	hits atomic.Int32
	reqs chan wire.Request
}

func startFakeNode(t *testing.T, tr *tcp.Transport, respond func(wire.Request) wire.Response) *fakeNode {
	t.Helper()

	l, err := tr.Listen(context.Background(), "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	n := &fakeNode{addr: l.Addr(), reqs: make(chan wire.Request, 16)}
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			n.hits.Add(1)
			go func() {
				defer c.Close()
				req, err := wire.ReadRequest(c, 1<<20)
				if err != nil {
					return
				}
				n.reqs <- req
				resp := respond(req)
				if resp.Status == "" && !resp.IsMessages() {
					// 不回应，等对端放弃
					_, _ = c.Read(make([]byte, 1))
					return
				}
				_ = wire.WriteResponse(c, resp)
			}()
		}
	}()
	return n
}

// deadAddr 返回一个无人监听的地址
func deadAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func addr(t *testing.T, s string) types.NodeAddress {
	t.Helper()
	a, err := types.ParseNodeAddress(s)
	require.NoError(t, err)
	return a
}

func testConfig() config.ForwardingConfig {
	cfg := config.DefaultForwardingConfig()
	cfg.BaseTimeout = config.Duration(2 * time.Second)
	cfg.PerHopTimeout = config.Duration(500 * time.Millisecond)
	return cfg
}

func newTestForwarder(t *testing.T, self string, cfg config.ForwardingConfig, opts ...Option) (*Forwarder, *membership.Static, *tcp.Transport) {
	t.Helper()
	tr := tcp.NewTransport(tcp.WithDialTimeout(time.Second))
	t.Cleanup(func() { _ = tr.Close() })

	members := membership.NewStatic(types.DefaultSpace())
	return New(addr(t, self), members, tr, cfg, opts...), members, tr
}

func TestForward_GreedyNextHop(t *testing.T) {
	f, members, tr := newTestForwarder(t, "000", testConfig())

	greedy := startFakeNode(t, tr, func(wire.Request) wire.Response {
		return wire.MessagesResponse([]string{"Breaking news!"})
	})
	alternate := startFakeNode(t, tr, func(wire.Request) wire.Response {
		return wire.StatusResponse(types.StatusNotFound)
	})
	require.NoError(t, members.Set(addr(t, "100"), greedy.addr))
	require.NoError(t, members.Set(addr(t, "001"), alternate.addr))

	req := wire.NewRequest(wire.Pull{Name: "News"})
	resp := f.Forward(context.Background(), addr(t, "101"), req)

	assert.Equal(t, wire.MessagesResponse([]string{"Breaking news!"}), resp)
	// 请求原样到达下游，包括 ID
	assert.Equal(t, req, <-greedy.reqs)
	assert.Zero(t, alternate.hits.Load())
}

func TestForward_RetriesAlternate(t *testing.T) {
	m := metrics.New("000")
	f, members, tr := newTestForwarder(t, "000", testConfig(), WithMetrics(m))

	alternate := startFakeNode(t, tr, func(wire.Request) wire.Response {
		return wire.StatusResponse(types.StatusPublished)
	})
	require.NoError(t, members.Set(addr(t, "100"), deadAddr(t)))
	require.NoError(t, members.Set(addr(t, "001"), alternate.addr))

	resp := f.Forward(context.Background(), addr(t, "101"), wire.NewRequest(wire.Publish{Name: "News", Message: "m"}))

	assert.Equal(t, wire.StatusResponse(types.StatusPublished), resp)
	assert.Equal(t, int32(1), alternate.hits.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ForwardAttempts.WithLabelValues(metrics.ForwardFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ForwardAttempts.WithLabelValues(metrics.ForwardOK)))
}

func TestForward_Exhausted(t *testing.T) {
	m := metrics.New("000")
	f, members, _ := newTestForwarder(t, "000", testConfig(), WithMetrics(m))

	require.NoError(t, members.Set(addr(t, "100"), deadAddr(t)))
	// 001 未登记，解析失败也算一次尝试

	resp := f.Forward(context.Background(), addr(t, "101"), wire.NewRequest(wire.CreateTopic{Name: "News"}))

	assert.Equal(t, wire.StatusResponse(types.StatusForwardingFailed), resp)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ForwardAttempts.WithLabelValues(metrics.ForwardFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ForwardAttempts.WithLabelValues(metrics.ForwardExhausted)))
}

func TestForward_MaxAttempts(t *testing.T) {
	cfg := testConfig()
	cfg.MaxAttempts = 1
	f, members, tr := newTestForwarder(t, "000", cfg)

	alternate := startFakeNode(t, tr, func(wire.Request) wire.Response {
		return wire.StatusResponse(types.StatusCreated)
	})
	require.NoError(t, members.Set(addr(t, "100"), deadAddr(t)))
	require.NoError(t, members.Set(addr(t, "001"), alternate.addr))

	resp := f.Forward(context.Background(), addr(t, "101"), wire.NewRequest(wire.CreateTopic{Name: "News"}))

	assert.Equal(t, types.StatusForwardingFailed, resp.Status)
	assert.Zero(t, alternate.hits.Load())
}

// 下游接受连接但从不回应，超时预算由注入的时钟控制
func TestForward_BlackHoleTimeout(t *testing.T) {
	mock := clock.NewMock()
	cfg := testConfig()
	cfg.MaxAttempts = 1
	f, members, tr := newTestForwarder(t, "000", cfg, WithClock(mock))

	hole := startFakeNode(t, tr, func(wire.Request) wire.Response { return wire.Response{} })
	require.NoError(t, members.Set(addr(t, "100"), hole.addr))

	owner := addr(t, "101")
	assert.Equal(t, 3*time.Second, f.Budget(owner))

	done := make(chan wire.Response, 1)
	go func() {
		done <- f.Forward(context.Background(), owner, wire.NewRequest(wire.Pull{Name: "News"}))
	}()

	// 请求到达黑洞后才推进时钟
	select {
	case <-hole.reqs:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached downstream")
	}

	var resp wire.Response
	require.Eventually(t, func() bool {
		mock.Add(f.Budget(owner))
		select {
		case resp = <-done:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, types.StatusForwardingFailed, resp.Status)
}

// 真实时钟下，黑洞的尝试在预算内放弃
func TestForward_BlackHoleRealClock(t *testing.T) {
	cfg := testConfig()
	cfg.BaseTimeout = config.Duration(150 * time.Millisecond)
	cfg.PerHopTimeout = config.Duration(50 * time.Millisecond)
	cfg.MaxAttempts = 1
	f, members, tr := newTestForwarder(t, "000", cfg)

	hole := startFakeNode(t, tr, func(wire.Request) wire.Response { return wire.Response{} })
	require.NoError(t, members.Set(addr(t, "100"), hole.addr))

	start := time.Now()
	resp := f.Forward(context.Background(), addr(t, "101"), wire.NewRequest(wire.Pull{Name: "News"}))

	assert.Equal(t, types.StatusForwardingFailed, resp.Status)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestForward_CallerCanceled(t *testing.T) {
	f, members, _ := newTestForwarder(t, "000", testConfig())
	require.NoError(t, members.Set(addr(t, "100"), deadAddr(t)))
	require.NoError(t, members.Set(addr(t, "001"), deadAddr(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := f.Forward(ctx, addr(t, "101"), wire.NewRequest(wire.Pull{Name: "News"}))
	assert.Equal(t, types.StatusForwardingFailed, resp.Status)
}

func TestForward_MaxResponseSize(t *testing.T) {
	cfg := testConfig()
	cfg.MaxResponseSize = 64

	big := wire.MessagesResponse([]string{strings.Repeat("m", 256)})
	respond := func(wire.Request) wire.Response { return big }

	t.Run("配置上限", func(t *testing.T) {
		f, members, tr := newTestForwarder(t, "000", cfg)
		owner := startFakeNode(t, tr, respond)
		require.NoError(t, members.Set(addr(t, "100"), owner.addr))

		resp := f.Forward(context.Background(), addr(t, "100"), wire.NewRequest(wire.Pull{Name: "News"}))
		assert.Equal(t, wire.StatusResponse(types.StatusForwardingFailed), resp)
	})

	t.Run("选项覆盖配置", func(t *testing.T) {
		f, members, tr := newTestForwarder(t, "000", cfg, WithMaxResponseSize(0))
		owner := startFakeNode(t, tr, respond)
		require.NoError(t, members.Set(addr(t, "100"), owner.addr))

		resp := f.Forward(context.Background(), addr(t, "100"), wire.NewRequest(wire.Pull{Name: "News"}))
		assert.Equal(t, big, resp)
	})
}

func TestForward_SelfIsOwner(t *testing.T) {
	f, _, _ := newTestForwarder(t, "101", testConfig())
	resp := f.Forward(context.Background(), addr(t, "101"), wire.NewRequest(wire.Pull{Name: "News"}))
	assert.Equal(t, types.StatusForwardingFailed, resp.Status)
}

func TestExchange_BadResponse(t *testing.T) {
	tr := tcp.NewTransport()
	t.Cleanup(func() { _ = tr.Close() })

	l, err := tr.Listen(context.Background(), "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	go func() {
		c, err := l.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		_, _ = wire.ReadRequest(c, 1<<20)
		_, _ = c.Write([]byte("not json"))
	}()

	_, err = Exchange(context.Background(), tr, l.Addr(), wire.NewRequest(wire.Pull{Name: "x"}), 0)
	assert.ErrorIs(t, err, ErrExchange)
	assert.ErrorIs(t, err, wire.ErrBadResponse)
}

func TestProvideForwarder_Config(t *testing.T) {
	tr := tcp.NewTransport()
	t.Cleanup(func() { _ = tr.Close() })

	cfg := config.DefaultConfig()
	cfg.Forwarding.MaxResponseSize = 4096
	f := ProvideForwarder(Params{
		Self:       addr(t, "000"),
		Membership: membership.NewStatic(types.DefaultSpace()),
		Transport:  tr,
		Config:     cfg,
	})
	assert.Equal(t, int64(4096), f.maxResponse)
	assert.Equal(t, cfg.Forwarding.Budget(2), f.Budget(addr(t, "011")))

	// 无配置时使用默认值，响应不限大小
	f = ProvideForwarder(Params{
		Self:       addr(t, "000"),
		Membership: membership.NewStatic(types.DefaultSpace()),
		Transport:  tr,
	})
	assert.Zero(t, f.maxResponse)
}
