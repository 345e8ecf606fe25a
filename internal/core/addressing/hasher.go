package addressing

import (
	"encoding/binary"

	"github.com/minio/sha256-simd"

	"github.com/dep2p/go-hypercube/pkg/types"
)

// Digest 返回主题名的 SHA-256 摘要
func Digest(topic string) [sha256.Size]byte {
	return sha256.Sum256([]byte(topic))
}

// Owner 返回 topic 在 space 中的归属节点
//
// 节点数是 2 的幂且不超过 2^32，摘要作为大端整数对其取模
// 只取决于最后 4 个字节。
func Owner(space types.Space, topic string) types.NodeAddress {
	d := Digest(topic)
	tail := binary.BigEndian.Uint32(d[sha256.Size-4:])
	a, _ := space.Address(tail & (space.Size() - 1))
	return a
}

// Hasher 绑定地址空间的主题哈希器
type Hasher struct {
	space types.Space
}

// NewHasher 创建哈希器
func NewHasher(space types.Space) *Hasher {
	return &Hasher{space: space}
}

// Space 返回哈希器的地址空间
func (h *Hasher) Space() types.Space {
	return h.space
}

// Owner 返回主题的归属节点
func (h *Hasher) Owner(topic string) types.NodeAddress {
	return Owner(h.space, topic)
}
