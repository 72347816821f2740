package config

import "errors"

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// Enabled 是否启用指标收集
	Enabled bool `json:"enabled" toml:"enabled"`

	// ListenAddr 指标 HTTP 端点的监听地址，空表示不暴露端点
	ListenAddr string `json:"listen_addr,omitempty" toml:"listen_addr"`

	// Path 指标端点路径
	Path string `json:"path" toml:"path"`

	// Namespace 指标名前缀
	Namespace string `json:"namespace" toml:"namespace"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   false,
		Path:      "/metrics",
		Namespace: "sansio",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Namespace == "" {
		return errors.New("metrics namespace must not be empty")
	}
	if c.ListenAddr != "" && (len(c.Path) == 0 || c.Path[0] != '/') {
		return errors.New("metrics path must start with /")
	}
	return nil
}
