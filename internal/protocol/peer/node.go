package peer

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/addressing"
	"github.com/dep2p/go-hypercube/internal/core/metrics"
	"github.com/dep2p/go-hypercube/internal/core/topicstore"
	"github.com/dep2p/go-hypercube/internal/core/topology"
	"github.com/dep2p/go-hypercube/internal/core/transport/tcp"
	"github.com/dep2p/go-hypercube/internal/protocol/forwarding"
	"github.com/dep2p/go-hypercube/internal/protocol/wire"
	"github.com/dep2p/go-hypercube/internal/util/logger"
	"github.com/dep2p/go-hypercube/pkg/types"
)

var log = logger.Logger("peer")

// drainSlack 关闭前最多多丢弃的输入字节
const drainSlack = 64 << 10

// Accept 持续失败时的退避区间
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Node 对等节点
type Node struct {
	self       types.NodeAddress
	hasher     *addressing.Hasher
	store      *topicstore.Store
	forwarder  *forwarding.Forwarder
	transport  *tcp.Transport
	listenAddr string

	cfg     config.ServerConfig
	metrics *metrics.Metrics
	clock   clock.Clock

	mu       sync.Mutex
	listener *tcp.Listener
	cancel   context.CancelFunc
	conns    sync.WaitGroup
	loopDone chan struct{}
}

// New 创建节点
//
// listenAddr 为 host:port，端口为 0 时由系统分配，启动后用 Addr 取得实际地址。
func New(
	self types.NodeAddress,
	hasher *addressing.Hasher,
	store *topicstore.Store,
	fwd *forwarding.Forwarder,
	t *tcp.Transport,
	listenAddr string,
	opts ...Option,
) *Node {
	n := &Node{
		self:       self,
		hasher:     hasher,
		store:      store,
		forwarder:  fwd,
		transport:  t,
		listenAddr: listenAddr,
		cfg:        config.DefaultServerConfig(),
		clock:      clock.New(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Self 返回节点地址
func (n *Node) Self() types.NodeAddress {
	return n.self
}

// Addr 返回实际监听地址，未启动时返回配置的地址
func (n *Node) Addr() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listener != nil {
		return n.listener.Addr()
	}
	return n.listenAddr
}

// Start 开始监听并接受连接
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.listener != nil {
		return ErrAlreadyStarted
	}

	l, err := n.transport.Listen(ctx, n.listenAddr)
	if err != nil {
		return err
	}

	// 不使用传入的 ctx：Fx OnStart 的 ctx 在返回后即被取消
	serveCtx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.listener = l
	n.loopDone = make(chan struct{})
	go n.acceptLoop(serveCtx, l, n.loopDone)

	log.Info("节点已启动", "node", n.self, "addr", l.Addr())
	return nil
}

// Stop 停止接受连接，等待进行中的请求完成或 ctx 到期
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	l, done, cancel := n.listener, n.loopDone, n.cancel
	if l == nil {
		n.mu.Unlock()
		return ErrNotStarted
	}
	n.listener = nil
	n.mu.Unlock()

	err := l.Close()
	<-done

	waited := make(chan struct{})
	go func() {
		n.conns.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
		log.Warn("等待进行中的请求超时", "node", n.self)
	}
	cancel()

	log.Info("节点已停止", "node", n.self)
	return err
}

func (n *Node) acceptLoop(ctx context.Context, l *tcp.Listener, done chan struct{}) {
	defer close(done)
	var delay time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, tcp.ErrListenerClosed) {
				return
			}
			// 例如 EMFILE，退避后重试
			delay = nextAcceptDelay(delay)
			log.Warn("接受连接失败", "node", n.self, "retry_in", delay, "error", err)
			time.Sleep(delay)
			continue
		}
		delay = 0
		n.conns.Add(1)
		go n.serveConn(ctx, conn)
	}
}

// nextAcceptDelay 返回下一次 Accept 重试前的等待时间，逐次翻倍直到上限
func nextAcceptDelay(d time.Duration) time.Duration {
	if d <= 0 {
		return minAcceptDelay
	}
	return min(2*d, maxAcceptDelay)
}

// serveConn 在一条连接上处理一个请求
func (n *Node) serveConn(ctx context.Context, conn *tcp.Conn) {
	defer n.conns.Done()
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(n.cfg.ReadTimeout.Duration()))
	req, err := wire.ReadRequest(conn, int64(n.cfg.MaxRequestSize))

	var resp wire.Response
	if err != nil {
		resp = n.reject(err)
		log.Debug("拒绝请求", "node", n.self, "remote", conn.RemoteAddr(), "error", err)
	} else {
		resp = n.safeHandle(ctx, req)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(n.cfg.WriteTimeout.Duration()))
	if err := wire.WriteResponse(conn, resp); err != nil {
		log.Debug("写回响应失败", "node", n.self, "remote", conn.RemoteAddr(), "error", err)
		return
	}
	log.Debug("响应已写回", "node", n.self, "remote", conn.RemoteAddr(), "elapsed", time.Since(conn.Opened()))

	// 丢弃未读完的输入再关闭，否则内核以 RST 关闭连接，对端可能读不到响应
	_ = conn.FinishWrite()
	_, _ = io.Copy(io.Discard, io.LimitReader(conn, int64(n.cfg.MaxRequestSize)+drainSlack))
}

func (n *Node) reject(err error) wire.Response {
	n.metrics.MalformedRequest()
	if errors.Is(err, wire.ErrUnknownCommand) {
		return wire.StatusResponse(types.StatusUnknownAction)
	}
	return wire.StatusResponse(types.StatusMalformed)
}

// safeHandle 将处理过程中的 panic 转为 Internal error 响应
func (n *Node) safeHandle(ctx context.Context, req wire.Request) (resp wire.Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("处理请求 panic", "node", n.self, "id", req.ID, "recover", r)
			resp = wire.StatusResponse(types.StatusInternalError)
		}
	}()
	return n.Handle(ctx, req)
}

// Handle 处理一个已解码的请求：本地执行或转发
//
// 请求原样转发，缺少 ID 时只在日志中补一个。
func (n *Node) Handle(ctx context.Context, req wire.Request) wire.Response {
	logID := req.ID
	if logID == "" {
		logID = wire.NewID()
	}
	start := n.clock.Now()
	verb := req.Command.Verb().String()
	topic := req.Command.Topic()
	owner := n.hasher.Owner(topic)

	var (
		resp  wire.Response
		route string
	)
	if owner == n.self {
		route = metrics.RouteLocal
		resp = n.execute(ctx, req.Command)
		log.Debug("本地执行",
			"node", n.self, "command", verb, "topic", topic, "id", logID, "response", resp)
	} else {
		route = metrics.RouteForwarded
		log.Info("转发请求",
			"node", n.self, "command", verb, "topic", topic, "owner", owner,
			"path", topology.Path(n.self, owner), "id", logID)
		resp = n.forwarder.Forward(ctx, owner, req)
	}

	n.metrics.ObserveRequest(verb, route, statusLabel(resp), n.clock.Since(start))
	return resp
}

// statusLabel 消息列表统一记为 "messages"，避免标签基数随消息数增长
func statusLabel(resp wire.Response) string {
	if resp.IsMessages() {
		return "messages"
	}
	return resp.Status.String()
}

// execute 在本地主题存储上执行命令
func (n *Node) execute(ctx context.Context, cmd wire.Command) wire.Response {
	var (
		st  types.Status
		err error
	)
	switch c := cmd.(type) {
	case wire.CreateTopic:
		st, err = n.store.Create(ctx, c.Name)
		if st == types.StatusCreated {
			n.metrics.TopicCreated()
		}
	case wire.Publish:
		st, err = n.store.Publish(ctx, c.Name, c.Message)
	case wire.DeleteTopic:
		st, err = n.store.Delete(ctx, c.Name)
		if st == types.StatusDeleted {
			n.metrics.TopicDeleted()
		}
	case wire.Subscribe:
		st, err = n.store.Subscribe(ctx, c.Name)
	case wire.Pull:
		msgs, found, perr := n.store.Pull(ctx, c.Name)
		switch {
		case perr != nil:
			err = perr
		case !found:
			st = types.StatusNotFound
		default:
			return wire.MessagesResponse(msgs)
		}
	default:
		return wire.StatusResponse(types.StatusUnknownAction)
	}

	if err != nil {
		log.Error("本地执行失败", "node", n.self, "command", cmd.Verb(), "topic", cmd.Topic(), "error", err)
		return wire.StatusResponse(types.StatusInternalError)
	}
	return wire.StatusResponse(st)
}
