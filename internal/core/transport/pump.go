package transport

import (
	"errors"
	"io"
	"net"
	"os"

	"github.com/dep2p/go-sansio/internal/core/layer"
	"github.com/dep2p/go-sansio/internal/util/logger"
)

var log = logger.Logger("transport")

// Pump 从 r 读取并逐块交给栈，直到读取出错
//
// 每块数据复制后再交付，上层可以持有收到的切片。
// 路由错误只记录日志，不终止链路。
// 返回值为终止读取的错误；对端正常关闭时为 nil。
func Pump(ep Endpoint, link layer.Layer, r io.Reader, bufSize int) error {
	if bufSize <= 0 {
		bufSize = 4096
	}
	buf := make([]byte, bufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			if derr := ep.Deliver(link, data); derr != nil {
				log.Warn("上交失败", "link", link.ResourceID(), "size", n, "err", derr)
			}
		}
		if err != nil {
			if IsClosedErr(err) {
				return nil
			}
			return err
		}
	}
}

// IsClosedErr 判断是否为连接正常关闭导致的错误
func IsClosedErr(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, ErrLinkClosed)
}
