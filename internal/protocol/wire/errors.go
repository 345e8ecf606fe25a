package wire

import "errors"

var (
	// ErrMalformed 请求无法解码或缺少必需字段
	ErrMalformed = errors.New("wire: malformed request")

	// ErrUnknownCommand 命令不在协议动词之内
	ErrUnknownCommand = errors.New("wire: unknown command")

	// ErrTooLarge 文档超出大小上限
	ErrTooLarge = errors.New("wire: document too large")

	// ErrBadResponse 响应既无 status 也无 messages
	ErrBadResponse = errors.New("wire: bad response")
)
