// Package topicstore 维护本节点拥有的主题及其消息缓冲
//
// # 并发模型
//
// 主题表由单个存储协程独占。所有动词都作为操作投递到协程的队列，
// 执行结果经应答通道返回，同一节点上的读-改-写因此天然串行，
// 不需要外部锁。
//
//	连接协程 ──op──▶ ┌──────────┐
//	连接协程 ──op──▶ │ 存储协程  │──▶ Engine（memory | badger）
//	连接协程 ──op──▶ └──────────┘
//
// # 存储引擎
//
//	memory  map[string][]string，默认
//	badger  BadgerDB 内存模式，不落盘
//
// badger 键布局：
//
//	't' | topic                                 -> 消息数 (uint64 BE)
//	'm' | len(topic) (uint32 BE) | topic | seq  -> 消息内容
//
// 进程退出即丢弃全部主题。
package topicstore
