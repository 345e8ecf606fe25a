// Package types 定义 go-hypercube 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              地址相关错误
// ============================================================================

var (
	// ErrEmptyAddress 空地址
	ErrEmptyAddress = errors.New("empty node address")

	// ErrInvalidAddress 地址含非 0/1 字符
	ErrInvalidAddress = errors.New("invalid node address")

	// ErrInvalidAddressWidth 地址宽度无效
	ErrInvalidAddressWidth = errors.New("invalid node address width")

	// ErrAddressOutOfRange 地址值超出宽度范围
	ErrAddressOutOfRange = errors.New("node address out of range")
)

// ============================================================================
//                              协议相关错误
// ============================================================================

var (
	// ErrUnknownVerb 未知的操作动词
	ErrUnknownVerb = errors.New("unknown verb")
)
