// Package client 提供超立方体发布/订阅的客户端门面
//
// 每个调用先计算 owner = hash(topic)，再通过成员表得到 owner 的拨号地址，
// 在一条新连接上完成一次请求/响应往返。五个门面方法总是直连 owner；
// Do 把命令发给指定的入口节点，由对等节点沿超立方体转发。
//
// 返回值约定：
//
//	CreateTopic/SendMessage/DeleteTopic/Subscribe → (types.Status, error)
//	  主题不存在是状态 "Topic not found"，不是错误
//	PullMessages → ([]string, error)
//	  主题不存在 → ErrTopicNotFound；空主题 → 非 nil 的空切片
//	网络失败 → ErrUnreachable（包装原因），状态方法同时返回 types.StatusUnreachable
//
// 使用示例：
//
//	c, err := client.New(membership.NewPorts(space, "127.0.0.1", 8000))
//	if err != nil { ... }
//	defer c.Close()
//
//	st, err := c.CreateTopic(ctx, "News")
//	msgs, err := c.PullMessages(ctx, "News")
package client
