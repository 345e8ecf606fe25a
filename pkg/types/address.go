package types

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxAddressBits 支持的最大地址宽度
//
// 16 比特即 65536 个节点，已超出 basePort+address 端口约定的可用范围。
const MaxAddressBits = 16

// DefaultAddressBits 默认地址宽度（8 节点）
const DefaultAddressBits = 3

// ============================================================================
//                              NodeAddress - 节点地址
// ============================================================================

// NodeAddress 超立方体节点地址
//
// 定宽比特串。零值不是合法地址（宽度为 0），使用 NewNodeAddress
// 或 ParseNodeAddress 构造。NodeAddress 可比较，可作为 map 键。
type NodeAddress struct {
	value uint32
	width uint8
}

// NewNodeAddress 从整数值和宽度构造地址
func NewNodeAddress(value uint32, width uint8) (NodeAddress, error) {
	if width == 0 || width > MaxAddressBits {
		return NodeAddress{}, fmt.Errorf("%w: width %d", ErrInvalidAddressWidth, width)
	}
	if value >= 1<<width {
		return NodeAddress{}, fmt.Errorf("%w: %d does not fit in %d bits", ErrAddressOutOfRange, value, width)
	}
	return NodeAddress{value: value, width: width}, nil
}

// MustNodeAddress 与 NewNodeAddress 相同，出错时 panic
func MustNodeAddress(value uint32, width uint8) NodeAddress {
	a, err := NewNodeAddress(value, width)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseNodeAddress 解析二进制字符串地址，宽度取字符串长度
//
// 示例: "101" -> 值 5，宽度 3
func ParseNodeAddress(s string) (NodeAddress, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NodeAddress{}, ErrEmptyAddress
	}
	if len(s) > MaxAddressBits {
		return NodeAddress{}, fmt.Errorf("%w: %q", ErrInvalidAddressWidth, s)
	}
	var v uint32
	for _, c := range s {
		switch c {
		case '0':
			v <<= 1
		case '1':
			v = v<<1 | 1
		default:
			return NodeAddress{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
	}
	return NodeAddress{value: v, width: uint8(len(s))}, nil
}

// Value 返回地址的整数值
func (a NodeAddress) Value() uint32 {
	return a.value
}

// Width 返回地址宽度（比特数）
func (a NodeAddress) Width() uint8 {
	return a.width
}

// IsValid 检查地址是否已初始化
func (a NodeAddress) IsValid() bool {
	return a.width > 0
}

// String 返回定宽二进制表示，如 "011"
func (a NodeAddress) String() string {
	if !a.IsValid() {
		return ""
	}
	return fmt.Sprintf("%0*b", a.width, a.value)
}

// Equal 检查两个地址是否相同
func (a NodeAddress) Equal(other NodeAddress) bool {
	return a == other
}

// FlipBit 翻转第 i 位（0 为最低位）
func (a NodeAddress) FlipBit(i uint8) NodeAddress {
	return NodeAddress{value: a.value ^ (1 << i), width: a.width}
}

// Xor 返回两地址的按位异或
//
// 两地址宽度不同时结果无意义，调用方需保证同一地址空间。
func (a NodeAddress) Xor(other NodeAddress) uint32 {
	return a.value ^ other.value
}

// Distance 返回两地址的汉明距离
func (a NodeAddress) Distance(other NodeAddress) int {
	return bits.OnesCount32(a.Xor(other))
}

// MarshalText 实现 encoding.TextMarshaler
func (a NodeAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (a *NodeAddress) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ============================================================================
//                              Space - 地址空间
// ============================================================================

// Space 超立方体地址空间
//
// 集群规模固定为 2^Bits。
type Space struct {
	bits uint8
}

// NewSpace 创建指定宽度的地址空间
func NewSpace(width uint8) (Space, error) {
	if width == 0 || width > MaxAddressBits {
		return Space{}, fmt.Errorf("%w: width %d", ErrInvalidAddressWidth, width)
	}
	return Space{bits: width}, nil
}

// SpaceForNodes 为 n 个节点创建地址空间，宽度 = ceil(log2(n))
//
// n = 1 时宽度取 1，保证地址非空。
func SpaceForNodes(n int) (Space, error) {
	if n <= 0 {
		return Space{}, fmt.Errorf("%w: %d nodes", ErrInvalidAddressWidth, n)
	}
	width := bits.Len(uint(n - 1))
	if width == 0 {
		width = 1
	}
	if width > MaxAddressBits {
		return Space{}, fmt.Errorf("%w: %d nodes", ErrInvalidAddressWidth, n)
	}
	return Space{bits: uint8(width)}, nil
}

// DefaultSpace 返回默认的 8 节点地址空间
func DefaultSpace() Space {
	return Space{bits: DefaultAddressBits}
}

// Bits 返回地址宽度
func (s Space) Bits() uint8 {
	return s.bits
}

// Size 返回地址空间大小 N
func (s Space) Size() uint32 {
	return 1 << s.bits
}

// Address 返回值为 v 的地址
func (s Space) Address(v uint32) (NodeAddress, error) {
	return NewNodeAddress(v, s.bits)
}

// Contains 检查地址是否属于本空间
func (s Space) Contains(a NodeAddress) bool {
	return a.width == s.bits && a.value < s.Size()
}

// Parse 解析地址并校验宽度
func (s Space) Parse(str string) (NodeAddress, error) {
	a, err := ParseNodeAddress(str)
	if err != nil {
		return NodeAddress{}, err
	}
	if !s.Contains(a) {
		return NodeAddress{}, fmt.Errorf("%w: %q is not a %d-bit address", ErrInvalidAddressWidth, str, s.bits)
	}
	return a, nil
}

// All 按升序返回空间内所有地址
func (s Space) All() []NodeAddress {
	out := make([]NodeAddress, 0, s.Size())
	for v := uint32(0); v < s.Size(); v++ {
		out = append(out, NodeAddress{value: v, width: s.bits})
	}
	return out
}

// String 返回空间描述
func (s Space) String() string {
	return fmt.Sprintf("hypercube/%d", s.bits)
}
