package metrics

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ============================================================================
// RateMeter - 速率计算器
// ============================================================================

// rateWindow 滑动窗口的桶数（每桶 1 秒）
const rateWindow = 60

// RateMeter 基于 60 个 1 秒桶的滑动窗口速率计算器
type RateMeter struct {
	mu       sync.Mutex
	buckets  [rateWindow]int64
	lastIdx  int
	lastTime time.Time

	clk clock.Clock
}

// NewRateMeter 创建速率计算器
func NewRateMeter() *RateMeter {
	return newRateMeter(clock.New())
}

func newRateMeter(clk clock.Clock) *RateMeter {
	return &RateMeter{clk: clk, lastTime: clk.Now()}
}

// advance 把窗口推进到当前时间，清空经过的桶
func (r *RateMeter) advance() {
	now := r.clk.Now()
	seconds := int(now.Sub(r.lastTime) / time.Second)
	if seconds <= 0 {
		return
	}
	if seconds >= rateWindow {
		r.buckets = [rateWindow]int64{}
		r.lastIdx = 0
	} else {
		for i := 0; i < seconds; i++ {
			r.lastIdx = (r.lastIdx + 1) % rateWindow
			r.buckets[r.lastIdx] = 0
		}
	}
	r.lastTime = r.lastTime.Add(time.Duration(seconds) * time.Second)
}

// Add 计入当前桶
func (r *RateMeter) Add(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advance()
	r.buckets[r.lastIdx] += n
}

// Rate 窗口内的平均速率（每秒）
func (r *RateMeter) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advance()

	var total int64
	for _, v := range r.buckets {
		total += v
	}
	return float64(total) / rateWindow
}

// Reset 清空窗口
func (r *RateMeter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets = [rateWindow]int64{}
	r.lastIdx = 0
	r.lastTime = r.clk.Now()
}
