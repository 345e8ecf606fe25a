// Package wire 定义主题协议的请求、响应与 JSON 编解码
//
// 请求：
//
//	{"command":"PUBLISH","topic":"News","message":"Breaking news!","id":"…"}
//
// command 为 CREATE|PUBLISH|DELETE|SUBSCRIBE|PULL；message 仅 PUBLISH 携带；
// id 可选，沿转发链原样传递，仅用于日志关联。
//
// 响应二选一：
//
//	{"status":"Topic created"}
//	{"messages":["Breaking news!"]}
//
// 每个方向一个 JSON 文档，一条连接一次交换。
package wire
