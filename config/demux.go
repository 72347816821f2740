package config

import (
	"errors"
	"fmt"
)

// DemuxConfig 扇入分用器配置
type DemuxConfig struct {
	// Strategy 识别策略：predicate / marker
	Strategy string `json:"strategy" toml:"strategy"`

	// MarkerOffset 标记窗口起始位置（marker 策略）
	MarkerOffset int `json:"marker_offset" toml:"marker_offset"`

	// MarkerLength 标记窗口长度（marker 策略）
	MarkerLength int `json:"marker_length" toml:"marker_length"`
}

// DefaultDemuxConfig 返回默认分用器配置
func DefaultDemuxConfig() DemuxConfig {
	return DemuxConfig{
		Strategy:     "predicate",
		MarkerOffset: 0,
		MarkerLength: 1,
	}
}

// Validate 验证分用器配置
func (c DemuxConfig) Validate() error {
	switch c.Strategy {
	case "predicate":
		return nil
	case "marker":
		if c.MarkerOffset < 0 {
			return errors.New("demux marker offset must not be negative")
		}
		if c.MarkerLength <= 0 {
			return errors.New("demux marker length must be positive")
		}
		return nil
	default:
		return fmt.Errorf("demux strategy must be predicate or marker, got %q", c.Strategy)
	}
}
