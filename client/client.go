package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/core/addressing"
	"github.com/dep2p/go-hypercube/internal/core/membership"
	"github.com/dep2p/go-hypercube/internal/core/topology"
	"github.com/dep2p/go-hypercube/internal/core/transport/tcp"
	"github.com/dep2p/go-hypercube/internal/protocol/forwarding"
	"github.com/dep2p/go-hypercube/internal/protocol/wire"
	"github.com/dep2p/go-hypercube/internal/util/logger"
	"github.com/dep2p/go-hypercube/pkg/types"
)

var log = logger.Logger("client")

// Client 客户端门面
//
// 并发安全。
type Client struct {
	members   membership.Membership
	hasher    *addressing.Hasher
	transport *tcp.Transport
	owners    *lru.Cache[string, types.NodeAddress]

	cfg          config.ForwardingConfig
	clock        clock.Clock
	cacheSize    int
	maxResponse  *int64
	ownTransport bool
}

// New 创建客户端
func New(members membership.Membership, opts ...Option) (*Client, error) {
	c := &Client{
		members:      members,
		hasher:       addressing.NewHasher(members.Space()),
		cfg:          config.DefaultForwardingConfig(),
		clock:        clock.New(),
		cacheSize:    DefaultCacheSize,
		ownTransport: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = tcp.NewTransport(tcp.WithDialTimeout(c.cfg.DialTimeout.Duration()))
	}

	owners, err := lru.New[string, types.NodeAddress](c.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("client: owner cache: %w", err)
	}
	c.owners = owners
	return c, nil
}

// NewFromConfig 按集群配置创建客户端
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	members, err := membership.FromConfig(cfg.Cluster)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithForwardingConfig(cfg.Forwarding)}, opts...)
	return New(members, opts...)
}

// Close 关闭客户端自己创建的传输
func (c *Client) Close() error {
	if c.ownTransport {
		return c.transport.Close()
	}
	return nil
}

// Space 返回地址空间
func (c *Client) Space() types.Space {
	return c.members.Space()
}

// Owner 返回主题的归属节点
func (c *Client) Owner(topic string) types.NodeAddress {
	if owner, ok := c.owners.Get(topic); ok {
		return owner
	}
	owner := c.hasher.Owner(topic)
	c.owners.Add(topic, owner)
	return owner
}

// ============================================================================
//                              门面方法
// ============================================================================

// CreateTopic 创建主题
func (c *Client) CreateTopic(ctx context.Context, topic string) (types.Status, error) {
	return c.status(ctx, wire.CreateTopic{Name: topic})
}

// SendMessage 向主题发布消息
func (c *Client) SendMessage(ctx context.Context, topic, message string) (types.Status, error) {
	return c.status(ctx, wire.Publish{Name: topic, Message: message})
}

// DeleteTopic 删除主题
func (c *Client) DeleteTopic(ctx context.Context, topic string) (types.Status, error) {
	return c.status(ctx, wire.DeleteTopic{Name: topic})
}

// Subscribe 检查主题是否存在
func (c *Client) Subscribe(ctx context.Context, topic string) (types.Status, error) {
	return c.status(ctx, wire.Subscribe{Name: topic})
}

// PullMessages 拉取主题当前的全部消息
//
// 主题不存在返回 ErrTopicNotFound；主题为空返回非 nil 的空切片。
func (c *Client) PullMessages(ctx context.Context, topic string) ([]string, error) {
	resp, err := c.direct(ctx, wire.Pull{Name: topic})
	if err != nil {
		return nil, err
	}
	if resp.IsMessages() {
		return resp.Messages, nil
	}
	if resp.Status.IsNotFound() {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, topic)
	}
	return nil, fmt.Errorf("%w: %s", ErrRejected, resp.Status)
}

// status 执行一个状态命令
func (c *Client) status(ctx context.Context, cmd wire.Command) (types.Status, error) {
	resp, err := c.direct(ctx, cmd)
	if err != nil {
		if errors.Is(err, ErrUnreachable) {
			return types.StatusUnreachable, err
		}
		return "", err
	}
	if resp.IsMessages() {
		return "", fmt.Errorf("%w: %s got %s", ErrUnexpectedResponse, cmd.Verb(), resp)
	}
	return resp.Status, nil
}

// direct 直连 owner 完成一次往返
func (c *Client) direct(ctx context.Context, cmd wire.Command) (wire.Response, error) {
	if cmd.Topic() == "" {
		return wire.Response{}, ErrEmptyTopic
	}
	owner := c.Owner(cmd.Topic())
	return c.roundTrip(ctx, owner, wire.NewRequest(cmd), c.cfg.BaseTimeout.Duration())
}

// Do 把命令发给入口节点 entry，由其负责转发到 owner
//
// 超时为入口节点全部转发尝试的预算之和。
func (c *Client) Do(ctx context.Context, entry types.NodeAddress, cmd wire.Command) (wire.Response, error) {
	if cmd.Topic() == "" {
		return wire.Response{}, ErrEmptyTopic
	}
	owner := c.Owner(cmd.Topic())

	timeout := c.cfg.BaseTimeout.Duration()
	if hops := topology.Distance(entry, owner); hops > 0 {
		attempts := min(c.cfg.MaxAttempts, hops)
		timeout += time.Duration(attempts) * c.cfg.Budget(hops)
	}
	return c.roundTrip(ctx, entry, wire.NewRequest(cmd), timeout)
}

// responseLimit 返回响应上限，未显式设置时取转发配置
func (c *Client) responseLimit() int64 {
	if c.maxResponse != nil {
		return *c.maxResponse
	}
	return c.cfg.MaxResponseSize
}

func (c *Client) roundTrip(ctx context.Context, to types.NodeAddress, req wire.Request, timeout time.Duration) (wire.Response, error) {
	owner := c.Owner(req.Command.Topic())
	log.Debug("发送请求",
		"command", req.Command.Verb(), "topic", req.Command.Topic(), "to", to, "owner", owner,
		"path", topology.Path(to, owner), "id", req.ID)

	addr, err := c.members.Resolve(to)
	if err != nil {
		return wire.Response{}, fmt.Errorf("%w: %s: %w", ErrUnreachable, to, err)
	}

	rctx, cancel := c.clock.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := forwarding.Exchange(rctx, c.transport, addr, req, c.responseLimit())
	if errors.Is(err, wire.ErrTooLarge) {
		log.Warn("响应超过上限", "to", to, "limit", c.responseLimit(), "id", req.ID)
		return wire.Response{}, fmt.Errorf("%w: %s: %w", ErrResponseTooLarge, to, err)
	}
	if err != nil {
		log.Warn("往返失败", "to", to, "addr", addr, "id", req.ID, "error", err)
		return wire.Response{}, fmt.Errorf("%w: %s: %w", ErrUnreachable, to, err)
	}
	log.Debug("收到响应", "to", to, "id", req.ID, "response", resp)
	return resp, nil
}
