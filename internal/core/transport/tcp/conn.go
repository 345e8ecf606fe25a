package tcp

import (
	"context"
	"net"
	"time"
)

// Conn 一次请求/响应交换使用的 TCP 连接
type Conn struct {
	*net.TCPConn

	opened time.Time
}

func newConn(c *net.TCPConn) *Conn {
	_ = c.SetNoDelay(true)
	return &Conn{TCPConn: c, opened: time.Now()}
}

// Opened 返回连接建立时间
func (c *Conn) Opened() time.Time {
	return c.opened
}

// BindContext 让 ctx 取消时阻塞中的读写立即返回
//
// 只传递取消信号，不读取 ctx.Deadline()：截止时间可能来自注入的时钟。
// 返回的函数用于解除绑定。
func (c *Conn) BindContext(ctx context.Context) (release func()) {
	stop := context.AfterFunc(ctx, func() {
		// 过去的时间点让所有阻塞 I/O 立刻超时
		_ = c.SetDeadline(time.Unix(1, 0))
	})
	return func() { stop() }
}

// FinishWrite 半关闭写端，通知对端请求已写完
func (c *Conn) FinishWrite() error {
	return c.CloseWrite()
}
