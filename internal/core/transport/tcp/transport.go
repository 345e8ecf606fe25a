package tcp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
)

// DefaultDialTimeout 默认建连超时
const DefaultDialTimeout = 2 * time.Second

// Option 传输选项
type Option func(*Transport)

// WithDialTimeout 设置建连超时
func WithDialTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.dialTimeout = d
		}
	}
}

// Transport TCP 传输
//
// 记录由它创建的监听器，Close 时一并关闭。
type Transport struct {
	dialTimeout time.Duration

	listenersMu sync.Mutex
	listeners   map[*Listener]struct{}

	closed atomic.Bool
}

// NewTransport 创建 TCP 传输
func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		dialTimeout: DefaultDialTimeout,
		listeners:   make(map[*Listener]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Listen 在 addr（host:port）上监听
func (t *Transport) Listen(ctx context.Context, addr string) (*Listener, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}

	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp: listen %s: %w", addr, err)
	}
	tl, ok := l.(*net.TCPListener)
	if !ok {
		_ = l.Close()
		return nil, ErrNotTCP
	}

	listener := &Listener{listener: tl}
	t.listenersMu.Lock()
	t.listeners[listener] = struct{}{}
	t.listenersMu.Unlock()
	return listener, nil
}

// Dial 连接 addr（host:port）
//
// 建连受 dialTimeout 和 ctx 的取消约束；ctx 的截止时间不直接交给 net.Dialer，
// 由调用方的时钟负责在到期时取消 ctx。
func (t *Transport) Dial(ctx context.Context, addr string) (*Conn, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}

	dctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	d := net.Dialer{Timeout: t.dialTimeout}
	c, err := d.DialContext(dctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp: dial %s: %w", addr, err)
	}
	tc, ok := c.(*net.TCPConn)
	if !ok {
		_ = c.Close()
		return nil, ErrNotTCP
	}
	return newConn(tc), nil
}

// IsClosed 检查传输是否已关闭
func (t *Transport) IsClosed() bool {
	return t.closed.Load()
}

// Close 关闭传输及其全部监听器
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()

	var err error
	for l := range t.listeners {
		err = multierr.Append(err, l.Close())
	}
	t.listeners = nil
	return err
}
