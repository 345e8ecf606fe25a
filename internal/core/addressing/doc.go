// Package addressing 把主题名映射到超立方体上的归属节点
//
// 主题名的 UTF-8 字节经 SHA-256 摘要后，按大端整数对节点总数取模，
// 得到归属节点地址。映射只依赖主题名和地址宽度，所有节点、所有客户端、
// 所有进程对同一主题得到同一地址。
//
// 使用示例：
//
//	owner := addressing.Owner(types.DefaultSpace(), "News") // "010"
package addressing
