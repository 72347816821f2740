package serial

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/dep2p/go-sansio/config"
)

// Config 串口链路配置
type Config struct {
	Port           string
	BaudRate       int
	DataBits       int
	Parity         string
	StopBits       string
	ReadBufferSize int
}

// ConfigFromUnified 从统一配置创建串口配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	s := cfg.Transport.Serial
	return Config{
		Port:           s.Port,
		BaudRate:       s.BaudRate,
		DataBits:       s.DataBits,
		Parity:         s.Parity,
		StopBits:       s.StopBits,
		ReadBufferSize: s.ReadBufferSize,
	}
}

// Mode 转换为设备打开参数
func (c Config) Mode() (*serial.Mode, error) {
	parity, err := parseParity(c.Parity)
	if err != nil {
		return nil, err
	}
	stop, err := parseStopBits(c.StopBits)
	if err != nil {
		return nil, err
	}
	return &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		Parity:   parity,
		StopBits: stop,
	}, nil
}

func parseParity(s string) (serial.Parity, error) {
	switch s {
	case "", "none":
		return serial.NoParity, nil
	case "odd":
		return serial.OddParity, nil
	case "even":
		return serial.EvenParity, nil
	case "mark":
		return serial.MarkParity, nil
	case "space":
		return serial.SpaceParity, nil
	default:
		return serial.NoParity, fmt.Errorf("%w: %q", ErrInvalidParity, s)
	}
}

func parseStopBits(s string) (serial.StopBits, error) {
	switch s {
	case "", "1":
		return serial.OneStopBit, nil
	case "1.5":
		return serial.OnePointFiveStopBits, nil
	case "2":
		return serial.TwoStopBits, nil
	default:
		return serial.OneStopBit, fmt.Errorf("%w: %q", ErrInvalidStopBits, s)
	}
}
