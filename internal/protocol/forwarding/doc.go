// Package forwarding 把请求沿超立方体转发给主题的归属节点
//
// # 转发算法
//
//	candidates = topology.Candidates(self, owner)   // 高位优先，首个即贪心下一跳
//	budget     = BaseTimeout + PerHopTimeout × Distance(self, owner)
//	for 前 MaxAttempts 个候选:
//	    在 budget 内与候选完成一次请求/响应交换
//	    成功 → 原样返回下游响应
//	全部失败 → {"status":"Failed to forward request"}
//
// 每个候选都让到 owner 的距离减一，重试不破坏跳数上界。
// 超时的尝试被放弃，迟到的响应随连接关闭而丢弃，取消不会向已放弃的
// 下游传播。转发节点不缓存、不修改请求与响应。
package forwarding
