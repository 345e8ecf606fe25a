package tcp

import "errors"

var (
	// ErrTransportClosed 传输已关闭
	ErrTransportClosed = errors.New("tcp: transport closed")

	// ErrListenerClosed 监听器已关闭
	ErrListenerClosed = errors.New("tcp: listener closed")

	// ErrNotTCP 底层连接不是 TCP
	ErrNotTCP = errors.New("tcp: not a tcp connection")
)
