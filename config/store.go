package config

import "fmt"

// 存储引擎名
const (
	EngineMemory = "memory"
	EngineBadger = "badger"
)

// StoreConfig 主题存储配置
//
// 存储只在进程生命周期内有效；badger 引擎以内存模式运行。
type StoreConfig struct {
	// Engine 存储引擎: memory 或 badger
	Engine string `json:"engine"`

	// QueueSize 存储协程的请求队列长度
	QueueSize int `json:"queue_size"`
}

// DefaultStoreConfig 返回默认存储配置
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Engine:    EngineMemory,
		QueueSize: 256,
	}
}

// Validate 验证存储配置
func (c *StoreConfig) Validate() error {
	switch c.Engine {
	case EngineMemory, EngineBadger:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEngine, c.Engine)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQueueSize, c.QueueSize)
	}
	return nil
}
