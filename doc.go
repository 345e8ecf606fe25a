// Package hypercube 提供基于超立方体覆盖网络的主题发布/订阅
//
// 集群由 2^Bits 个对等节点组成，每个节点有一个定宽二进制地址。
// 主题的归属节点由主题名的 SHA-256 决定，主题只存在于归属节点的内存中。
// 请求到达非归属节点时，沿超立方体逐跳转发，每跳汉明距离减一。
//
// # 快速开始
//
//	import "github.com/dep2p/go-hypercube"
//
//	// 1. 启动一个节点（默认 3 位，端口约定 127.0.0.1:8000+n）
//	node, err := hypercube.Start(ctx, hypercube.WithAddress("101"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close()
//
//	// 2. 或在一个进程中启动全部节点
//	cluster, err := hypercube.StartCluster(ctx, config.DefaultConfig())
//	defer cluster.Close()
//
//	// 3. 通过客户端门面访问
//	c, _ := cluster.Client()
//	c.CreateTopic(ctx, "News")
//	c.SendMessage(ctx, "News", "Breaking news!")
//	msgs, _ := c.PullMessages(ctx, "News")
//
// # 层次结构
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  入口层     Node / Cluster           hypercube.Start()       │
//	├─────────────────────────────────────────────────────────────┤
//	│  协议层     peer → forwarding → wire                         │
//	├─────────────────────────────────────────────────────────────┤
//	│  核心层     addressing / topology / membership /             │
//	│             topicstore / transport / metrics                 │
//	└─────────────────────────────────────────────────────────────┘
//
// # 配置
//
// 配置见 config 包；日志级别由环境变量 HYPERCUBE_LOG_LEVEL 控制，
// 例如 HYPERCUBE_LOG_LEVEL=forwarding=debug,info。
package hypercube
