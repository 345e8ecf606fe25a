// Package peer 实现超立方体上的对等节点服务
//
// 节点监听自己的地址，每条入站连接读取一个请求：
//
//	owner = hash(topic)
//	owner == self → 在本地主题存储上同步执行
//	owner != self → 交给转发器，沿超立方体前往 owner
//
// 响应写回后关闭连接。无法解码的请求得到 "Malformed request"，
// 未知命令得到 "Unknown action"，单个请求的失败或 panic 不会影响服务循环。
//
// # 生命周期
//
//	n := peer.New(self, hasher, store, fwd, transport, "127.0.0.1:8005")
//	if err := n.Start(ctx); err != nil { ... }
//	defer n.Stop(ctx)
package peer
