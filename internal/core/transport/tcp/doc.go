// Package tcp 提供节点间与客户端使用的 TCP 传输
//
// 每条连接只承载一次请求/响应交换：
//
//  1. 拨号方写入一个请求后半关闭写端
//  2. 服务方读取请求、写回一个响应
//  3. 双方关闭连接
//
// 连接不复用，没有会话多路复用，也没有安全层。
//
// # 使用示例
//
//	t := tcp.NewTransport(tcp.WithDialTimeout(2 * time.Second))
//
//	l, err := t.Listen(ctx, "127.0.0.1:8005")
//	conn, err := l.Accept()
//
//	conn, err := t.Dial(ctx, "127.0.0.1:8005")
package tcp
