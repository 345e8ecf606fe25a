// Package logger 提供 go-hypercube 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（HYPERCUBE_LOG_LEVEL, HYPERCUBE_LOG_FORMAT）
//   - 结构化日志
//
// 使用示例:
//
//	package forwarding
//
//	import "github.com/dep2p/go-hypercube/internal/util/logger"
//
//	var log = logger.Logger("forwarding")
//
//	func foo() {
//	    log.Info("forwarding request", "node", self, "next", next)
//	    log.Debug("attempt failed", "err", err)
//	}
//
// 环境变量配置:
//
//	# 所有模块为 info，forwarding 模块为 debug
//	HYPERCUBE_LOG_LEVEL=forwarding=debug,info
//
//	# 使用 JSON 格式输出
//	HYPERCUBE_LOG_FORMAT=json
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// handlers 缓存各子系统的 Handler（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler
)

// Logger 获取指定子系统的 Logger
//
// 同一子系统多次调用返回相同实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	level := cfg.LevelForSubsystem(subsystem)

	handler := newHandler(subsystem, level, cfg.Format)
	logger := slog.New(handler)

	actual, loaded := loggers.LoadOrStore(subsystem, logger)
	if !loaded {
		handlers.Store(subsystem, handler)
	}
	return actual.(*slog.Logger)
}

// SetLevel 动态设置子系统的日志级别
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// SetGlobalLevel 设置所有已创建子系统的日志级别
func SetGlobalLevel(level slog.Level) {
	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).SetLevel(level)
		return true
	})
}

// Discard 返回一个丢弃所有日志的 Logger
//
// 主要用于测试。
func Discard() *slog.Logger {
	return slog.New(DiscardHandler())
}

// With 创建带有预设属性的 Logger
//
// 示例:
//
//	log := logger.With("peer", "node", self.String())
//	log.Info("listening")
func With(subsystem string, args ...any) *slog.Logger {
	return Logger(subsystem).With(args...)
}

// SetOutput 设置全局日志输出目标
//
// 已创建的 Logger 通过 dynamicWriter 自动重定向。传入 nil 恢复 stderr。
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	globalOutputMu.Lock()
	globalOutput = w
	globalOutputMu.Unlock()
}
