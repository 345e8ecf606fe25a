// Package transport 装配节点使用的传输层
//
// 目前只有 TCP 一种传输（见子包 tcp）。本包提供 Fx 模块，
// 按配置创建 *tcp.Transport 并在节点停止时关闭它。
package transport
