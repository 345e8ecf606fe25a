package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dep2p/go-hypercube/config"
)

// ============================================================================
//                              环境变量（CLI 专用）
// ============================================================================

// 环境变量名
const (
	envPrefix = "HYPERCUBE_"

	envBits          = "BITS"
	envHost          = "HOST"
	envBasePort      = "BASE_PORT"
	envBaseTimeout   = "BASE_TIMEOUT"
	envPerHopTimeout = "PER_HOP_TIMEOUT"
	envMaxAttempts   = "MAX_ATTEMPTS"
	envStoreEngine   = "STORE_ENGINE"
	envMetricsAddr   = "METRICS_ADDR"
	envLogFile       = "LOG_FILE"
)

// loadConfig 从文件加载配置，path 为空时使用默认配置
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadFile(path)
}

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
// 支持的环境变量（均使用 HYPERCUBE_ 前缀）：
//   - HYPERCUBE_BITS: 地址宽度
//   - HYPERCUBE_HOST / HYPERCUBE_BASE_PORT: 端口约定
//   - HYPERCUBE_BASE_TIMEOUT / HYPERCUBE_PER_HOP_TIMEOUT: 转发超时（如 "5s"）
//   - HYPERCUBE_MAX_ATTEMPTS: 每个请求最多尝试的邻居数
//   - HYPERCUBE_STORE_ENGINE: memory 或 badger
//   - HYPERCUBE_METRICS_ADDR: 启用指标并设置监听地址
//
// 无法解析的值被忽略，保留原配置。
func applyEnvOverrides(cfg *config.Config) {
	if v := getEnv(envBits); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.Cluster.Bits = uint8(n)
		}
	}
	if v := getEnv(envHost); v != "" {
		cfg.Cluster.Host = v
	}
	if v := getEnv(envBasePort); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cluster.BasePort = n
		}
	}
	if v := getEnv(envBaseTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Forwarding.BaseTimeout = config.Duration(d)
		}
	}
	if v := getEnv(envPerHopTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Forwarding.PerHopTimeout = config.Duration(d)
		}
	}
	if v := getEnv(envMaxAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Forwarding.MaxAttempts = n
		}
	}
	if v := getEnv(envStoreEngine); v != "" {
		cfg.Store.Engine = strings.ToLower(v)
	}
	if v := getEnv(envMetricsAddr); v != "" {
		cfg.Metrics.Enable = true
		cfg.Metrics.ListenAddr = v
	}
}

func getEnv(name string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + name))
}
