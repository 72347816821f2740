// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Transport.EnableTCP = true
//	cfg.Transport.TCP.ListenAddr = ":7000"
//
//	// 从 JSON 加载
//	cfg, err := config.LoadFile("relay.json")
package config

// Config 是 go-sansio 的完整配置结构
//
// 配置按照功能模块组织：
//   - Transport: 物理链路协作方（TCP/WebSocket/串口）
//   - HalfDuplex: 半双工层的发送模式
//   - Demux: 扇入分用器的识别策略
//   - Metrics: Prometheus 指标
//   - Log: 日志
type Config struct {
	// Transport 物理链路配置
	Transport TransportConfig `json:"transport" toml:"transport"`

	// HalfDuplex 半双工层配置
	HalfDuplex HalfDuplexConfig `json:"half_duplex" toml:"half_duplex"`

	// Demux 扇入分用器配置
	Demux DemuxConfig `json:"demux" toml:"demux"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" toml:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log" toml:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Transport:  DefaultTransportConfig(),
		HalfDuplex: DefaultHalfDuplexConfig(),
		Demux:      DefaultDemuxConfig(),
		Metrics:    DefaultMetricsConfig(),
		Log:        DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置，返回第一个错误。
func (c *Config) Validate() error {
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	if err := c.HalfDuplex.Validate(); err != nil {
		return err
	}
	if err := c.Demux.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}
