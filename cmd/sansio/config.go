package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/dep2p/go-sansio/config"
)

// 环境变量前缀
const envPrefix = "SANSIO_"

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
// 支持的环境变量（均使用 SANSIO_ 前缀）：
//   - SANSIO_TCP_ADDR: TCP 监听地址，off 禁用
//   - SANSIO_WS_ADDR: WebSocket 监听地址
//   - SANSIO_SERIAL_PORT: 串口设备
//   - SANSIO_SERIAL_BAUD: 串口波特率
//   - SANSIO_METRICS_ADDR: Prometheus 抓取地址
//   - SANSIO_HALF_DUPLEX_MODE: immediate/deferred
//   - SANSIO_LOG_FILE: 日志文件路径
func applyEnvOverrides(cfg *config.Config) {
	if v, ok := lookupEnv("TCP_ADDR"); ok {
		applyTCPAddr(cfg, v)
	}

	if v, ok := lookupEnv("WS_ADDR"); ok && v != "" {
		cfg.Transport.EnableWebSocket = true
		cfg.Transport.WebSocket.ListenAddr = v
	}

	if v, ok := lookupEnv("SERIAL_PORT"); ok {
		cfg.Transport = cfg.Transport.WithSerial(v)
	}

	if v, ok := lookupEnv("SERIAL_BAUD"); ok {
		if baud, err := strconv.Atoi(v); err == nil && baud > 0 {
			cfg.Transport.Serial.BaudRate = baud
		}
	}

	if v, ok := lookupEnv("METRICS_ADDR"); ok && v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = v
	}

	if v, ok := lookupEnv("HALF_DUPLEX_MODE"); ok && v != "" {
		cfg.HalfDuplex.Mode = v
	}

	if v, ok := lookupEnv("LOG_FILE"); ok {
		cfg.Log.File = v
	}
}

// applyTCPAddr 设置 TCP 地址；空值或 off 禁用 TCP
func applyTCPAddr(cfg *config.Config, addr string) {
	if addr == "" || strings.EqualFold(addr, "off") {
		cfg.Transport.EnableTCP = false
		return
	}
	cfg.Transport.EnableTCP = true
	cfg.Transport.TCP.ListenAddr = addr
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	return strings.TrimSpace(v), ok
}
