package topicstore

// Engine 主题存储引擎
//
// 实现不需要并发安全，只会被存储协程调用。
type Engine interface {
	// Create 创建空主题，已存在时返回 false
	Create(topic string) (bool, error)

	// Exists 检查主题是否存在
	Exists(topic string) (bool, error)

	// Append 追加消息，主题不存在时返回 false
	Append(topic, message string) (bool, error)

	// Messages 返回主题当前全部消息的副本，主题不存在时返回 false
	Messages(topic string) ([]string, bool, error)

	// Delete 删除主题及其消息，主题不存在时返回 false
	Delete(topic string) (bool, error)

	// Count 返回主题数
	Count() (int, error)

	// Close 释放资源
	Close() error
}
