// Package membership 把节点地址解析为可拨号的网络地址
//
// 集群成员在部署期间固定。两种实现：
//   - Ports: 端口约定，节点 n 位于 Host:(BasePort+n)，无需目录服务
//   - Static: 静态表，显式列出每个地址的 host:port
package membership

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"sync"

	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/pkg/types"
)

var (
	// ErrUnknownPeer 地址不在成员表中
	ErrUnknownPeer = errors.New("membership: unknown peer")

	// ErrWrongSpace 地址不属于本集群的地址空间
	ErrWrongSpace = errors.New("membership: address not in cluster space")
)

// Membership 地址到拨号地址的映射
type Membership interface {
	// Space 返回集群地址空间
	Space() types.Space

	// Resolve 返回地址对应的 host:port
	Resolve(addr types.NodeAddress) (string, error)
}

// ============================================================================
//                              Ports - 端口约定
// ============================================================================

// Ports 按 BasePort+地址值推导端口
type Ports struct {
	space    types.Space
	host     string
	basePort int
}

// NewPorts 创建端口约定成员表
func NewPorts(space types.Space, host string, basePort int) *Ports {
	return &Ports{space: space, host: host, basePort: basePort}
}

// Space 返回地址空间
func (p *Ports) Space() types.Space { return p.space }

// Resolve 返回 host:(basePort+addr)
func (p *Ports) Resolve(addr types.NodeAddress) (string, error) {
	if !p.space.Contains(addr) {
		return "", fmt.Errorf("%w: %s", ErrWrongSpace, addr)
	}
	return net.JoinHostPort(p.host, strconv.Itoa(p.basePort+int(addr.Value()))), nil
}

// ============================================================================
//                              Static - 静态表
// ============================================================================

// Static 静态成员表
//
// 可在节点启动前逐个填写（测试中先监听 127.0.0.1:0 再登记实际端口），
// 并发读写安全。
type Static struct {
	space types.Space

	mu    sync.RWMutex
	peers map[types.NodeAddress]string
}

// NewStatic 创建空的静态成员表
func NewStatic(space types.Space) *Static {
	return &Static{
		space: space,
		peers: make(map[types.NodeAddress]string),
	}
}

// Space 返回地址空间
func (s *Static) Space() types.Space { return s.space }

// Set 登记地址的拨号地址
func (s *Static) Set(addr types.NodeAddress, hostport string) error {
	if !s.space.Contains(addr) {
		return fmt.Errorf("%w: %s", ErrWrongSpace, addr)
	}
	s.mu.Lock()
	s.peers[addr] = hostport
	s.mu.Unlock()
	return nil
}

// Resolve 查找地址的拨号地址
func (s *Static) Resolve(addr types.NodeAddress) (string, error) {
	s.mu.RLock()
	hp, ok := s.peers[addr]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPeer, addr)
	}
	return hp, nil
}

// Addresses 返回已登记的地址（升序）
func (s *Static) Addresses() []types.NodeAddress {
	s.mu.RLock()
	out := make([]types.NodeAddress, 0, len(s.peers))
	for a := range s.peers {
		out = append(out, a)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Value() < out[j].Value() })
	return out
}

// ============================================================================
//                              配置构造
// ============================================================================

// FromConfig 根据集群配置构造成员表
//
// Peers 非空时使用静态表，否则使用端口约定。
func FromConfig(cfg config.ClusterConfig) (Membership, error) {
	space, err := cfg.Space()
	if err != nil {
		return nil, err
	}
	if len(cfg.Peers) == 0 {
		return NewPorts(space, cfg.Host, cfg.BasePort), nil
	}

	st := NewStatic(space)
	for k, v := range cfg.Peers {
		addr, err := space.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("membership: peer %q: %w", k, err)
		}
		if err := st.Set(addr, v); err != nil {
			return nil, err
		}
	}
	return st, nil
}
