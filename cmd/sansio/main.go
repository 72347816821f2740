// Package main 提供 sansio 中继服务命令行入口
//
// 任一链路收到的数据经 FanOutMux 广播到全部链路。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dep2p/go-sansio"
	"github.com/dep2p/go-sansio/config"
	"github.com/dep2p/go-sansio/internal/core/transport/serial"
	"github.com/dep2p/go-sansio/internal/util/logger"
)

var log = logger.Logger("cmd")

// 命令行参数覆盖配置文件；未设置的参数保持配置文件中的值
var (
	configFile  = flag.String("config", "", "配置文件路径（JSON）")
	tcpAddr     = flag.String("tcp", "", "TCP 监听地址，如 :7000；\"off\" 禁用")
	wsAddr      = flag.String("ws", "", "WebSocket 监听地址，如 :7001")
	serialPort  = flag.String("serial", "", "串口设备，如 /dev/ttyUSB0")
	baudRate    = flag.Int("baud", 0, "串口波特率")
	metricsAddr = flag.String("metrics", "", "Prometheus 抓取地址，如 :9100")
	logFile     = flag.String("log", "", "日志文件路径")
	logLevel    = flag.String("log-level", "", "日志级别，如 info 或 mux=debug,info")
	listSerial  = flag.Bool("list-serial", false, "列出串口设备后退出")
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
		fmt.Println(sansio.VersionInfo())
		return nil
	}

	if *listSerial {
		ports, err := serial.Ports()
		if err != nil {
			return fmt.Errorf("列出串口失败: %w", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	}

	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	srv, err := sansio.New(
		sansio.WithConfig(cfg),
		sansio.WithApplication(sansio.NewRelay()),
	)
	if err != nil {
		return fmt.Errorf("创建服务失败: %w", err)
	}

	log.Info("启动中继服务", "version", sansio.Version, "commit", sansio.GitCommit)
	if err := srv.Start(context.Background()); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	printInfo(srv)

	fmt.Println("服务已启动，按 Ctrl+C 退出")
	waitForSignal()

	fmt.Println("\n正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

// buildConfig 合并配置
//
// 优先级（从高到低）：命令行参数 > 环境变量 > 配置文件 > 默认值
func buildConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags 应用显式设置的命令行参数
func applyFlags(cfg *config.Config) {
	if isFlagSet("tcp") {
		applyTCPAddr(cfg, *tcpAddr)
	}
	if isFlagSet("ws") && *wsAddr != "" {
		cfg.Transport.EnableWebSocket = true
		cfg.Transport.WebSocket.ListenAddr = *wsAddr
	}
	if isFlagSet("serial") {
		cfg.Transport = cfg.Transport.WithSerial(*serialPort)
	}
	if isFlagSet("baud") && *baudRate > 0 {
		cfg.Transport.Serial.BaudRate = *baudRate
	}
	if isFlagSet("metrics") && *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = *metricsAddr
	}
	if isFlagSet("log") {
		cfg.Log.File = *logFile
	}
	if isFlagSet("log-level") {
		cfg.Log.Level = *logLevel
	}
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// waitForSignal 等待退出信号
func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
}

// printInfo 打印已启用的链路
func printInfo(srv *sansio.Server) {
	fmt.Printf("📦 %s\n", sansio.VersionInfo())
	if addr := srv.TCPAddr(); addr != nil {
		fmt.Printf("  TCP:       %s\n", addr)
	}
	if url := srv.WebSocketURL(); url != "" {
		fmt.Printf("  WebSocket: %s\n", url)
	}
	if d := srv.SerialDevice(); d != nil {
		fmt.Printf("  Serial:    %s\n", srv.Config().Transport.Serial.Port)
	}
	if srv.Collector() != nil && srv.Config().Metrics.ListenAddr != "" {
		fmt.Printf("  Metrics:   http://%s%s\n", srv.Config().Metrics.ListenAddr, srv.Config().Metrics.Path)
	}
}
