// Package topology 实现超立方体拓扑上的邻居与贪心路由计算
//
// 所有函数都是地址空间上的纯函数。两个地址宽度必须相同，
// 调用方（转发器、客户端）保证它们来自同一 types.Space。
//
// 贪心路由每一步翻转当前地址与目标地址差异中的最高位，
// 汉明距离严格递减，因此任意两点间的路由不超过地址宽度跳。
package topology

import (
	"math/bits"

	"github.com/dep2p/go-hypercube/pkg/types"
)

// Distance 返回两地址的汉明距离，即贪心路由的跳数
func Distance(a, b types.NodeAddress) int {
	return a.Distance(b)
}

// IsNeighbor 检查两地址是否恰好相差一位
func IsNeighbor(a, b types.NodeAddress) bool {
	return a.Width() == b.Width() && Distance(a, b) == 1
}

// Neighbors 返回 a 的全部邻居，按翻转位从低到高排列
func Neighbors(a types.NodeAddress) []types.NodeAddress {
	out := make([]types.NodeAddress, 0, a.Width())
	for i := uint8(0); i < a.Width(); i++ {
		out = append(out, a.FlipBit(i))
	}
	return out
}

// NextHop 返回从 current 前往 target 的下一跳
//
// current == target 时返回 false，表示已到达。
func NextHop(current, target types.NodeAddress) (types.NodeAddress, bool) {
	diff := current.Xor(target)
	if diff == 0 {
		return current, false
	}
	return current.FlipBit(highestBit(diff)), true
}

// Path 返回从 current 到 target 的完整贪心路径
//
// 不含 current，含 target；两者相同时返回空路径。
func Path(current, target types.NodeAddress) []types.NodeAddress {
	path := make([]types.NodeAddress, 0, Distance(current, target))
	for {
		next, ok := NextHop(current, target)
		if !ok {
			return path
		}
		path = append(path, next)
		current = next
	}
}

// Candidates 返回所有能让到 target 的距离减一的邻居
//
// 差异位从高到低排列，第一个元素即 NextHop。任一候选都比 current
// 更接近 target，转发器换用备选邻居重试时仍保持跳数上界。
func Candidates(current, target types.NodeAddress) []types.NodeAddress {
	diff := current.Xor(target)
	out := make([]types.NodeAddress, 0, bits.OnesCount32(diff))
	for diff != 0 {
		i := highestBit(diff)
		out = append(out, current.FlipBit(i))
		diff &^= 1 << i
	}
	return out
}

func highestBit(v uint32) uint8 {
	return uint8(bits.Len32(v) - 1)
}
