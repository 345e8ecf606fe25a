package tcp

import (
	"errors"
	"net"
	"sync/atomic"
)

// Listener TCP 监听器
type Listener struct {
	listener *net.TCPListener
	closed   atomic.Bool
}

// Accept 等待下一条入站连接
//
// 监听器关闭后返回 ErrListenerClosed。
func (l *Listener) Accept() (*Conn, error) {
	c, err := l.listener.AcceptTCP()
	if err != nil {
		if l.closed.Load() || errors.Is(err, net.ErrClosed) {
			return nil, ErrListenerClosed
		}
		return nil, err
	}
	return newConn(c), nil
}

// Addr 返回实际监听地址（端口为 0 时为系统分配的端口）
func (l *Listener) Addr() string {
	return l.listener.Addr().String()
}

// Close 关闭监听器
func (l *Listener) Close() error {
	if l.closed.CompareAndSwap(false, true) {
		return l.listener.Close()
	}
	return nil
}

// IsClosed 检查监听器是否已关闭
func (l *Listener) IsClosed() bool {
	return l.closed.Load()
}
