// Package main 提供 hypercube 节点的命令行入口
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	hypercube "github.com/dep2p/go-hypercube"
	"github.com/dep2p/go-hypercube/config"
	"github.com/dep2p/go-hypercube/internal/util/logger"
)

var log = logger.Logger("cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	addr        = flag.String("addr", "", "节点地址（二进制，如 101）")
	all         = flag.Bool("all", false, "在本进程中启动地址空间内的全部节点")
	configFile  = flag.String("config", "", "JSON 配置文件路径")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus 指标监听地址（如 127.0.0.1:9100）")
	logFile     = flag.String("log", "", "日志文件路径（默认输出到 stderr）")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(hypercube.VersionInfo())
		return nil
	}
	if *addr == "" && !*all {
		flag.Usage()
		return errors.New("需要 -addr 或 -all")
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reg *prometheus.Registry
	if cfg.Metrics.Enable {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	var opts []hypercube.Option
	if reg != nil {
		opts = append(opts, hypercube.WithRegistry(reg))
	}

	log.Info("启动 hypercube", "version", hypercube.Version, "bits", cfg.Cluster.Bits)

	var stop func() error
	if *all {
		cluster, err := hypercube.StartCluster(ctx, cfg, hypercube.WithNodeOptions(opts...))
		if err != nil {
			return fmt.Errorf("启动失败: %w", err)
		}
		for _, n := range cluster.Nodes() {
			fmt.Printf("节点 %s 监听 %s\n", n.Self(), n.Addr())
		}
		stop = cluster.Close
	} else {
		opts = append(opts, hypercube.WithConfig(cfg), hypercube.WithAddress(*addr))
		node, err := hypercube.Start(ctx, opts...)
		if err != nil {
			return fmt.Errorf("启动失败: %w", err)
		}
		fmt.Printf("节点 %s 监听 %s\n", node.Self(), node.Addr())
		stop = node.Close
	}

	var srv *http.Server
	if reg != nil {
		srv = serveMetrics(cfg.Metrics.ListenAddr, reg)
		fmt.Printf("指标: http://%s/metrics\n", cfg.Metrics.ListenAddr)
	}

	fmt.Println("按 Ctrl+C 退出")
	waitForSignal()
	fmt.Println("\n正在关闭...")

	err = stop()
	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		err = multierr.Append(err, srv.Shutdown(shutdownCtx))
	}
	return err
}

// buildConfig 构建配置
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（HYPERCUBE_* 前缀）
//  3. 配置文件
//  4. 默认值
func buildConfig() (*config.Config, error) {
	cfg, err := loadConfig(*configFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置文件失败: %w", err)
	}
	applyEnvOverrides(cfg)

	if *metricsAddr != "" {
		cfg.Metrics.Enable = true
		cfg.Metrics.ListenAddr = *metricsAddr
	}
	return cfg, cfg.Validate()
}

// serveMetrics 在后台暴露 /metrics
func serveMetrics(listenAddr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("指标服务退出", "addr", listenAddr, "error", err)
		}
	}()
	return srv
}

// setupLogging 设置日志输出，返回关闭函数
func setupLogging() (func(), error) {
	path := *logFile
	if path == "" {
		path = getEnv(envLogFile)
	}
	if path == "" {
		return func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // 用户指定的日志路径
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	logger.SetOutput(file)
	return func() {
		logger.SetOutput(nil)
		_ = file.Close()
	}, nil
}

// waitForSignal 等待退出信号
func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
}
