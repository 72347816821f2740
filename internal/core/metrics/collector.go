package metrics

import (
	"net/http"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pkgif "github.com/dep2p/go-sansio/pkg/interfaces"
)

// componentCounter 单个组件的进程内计数
type componentCounter struct {
	bytesIn    atomic.Int64
	bytesOut   atomic.Int64
	framesIn   atomic.Int64
	framesOut  atomic.Int64
	errors     atomic.Int64
	queueDepth atomic.Int64

	rateIn  *RateMeter
	rateOut *RateMeter
}

// Collector 以 Prometheus 指标实现 Reporter
//
// 同时维护进程内计数，供 Snapshot 读取。
// 每个 Collector 使用独立的 Registry，可以在同一进程中创建多个。
type Collector struct {
	registry *prometheus.Registry

	bytes      *prometheus.CounterVec
	frames     *prometheus.CounterVec
	errors     *prometheus.CounterVec
	queueDepth *prometheus.GaugeVec

	mu         sync.RWMutex
	components map[string]*componentCounter
}

var _ pkgif.Reporter = (*Collector)(nil)

// NewCollector 创建 Collector，namespace 为指标名前缀
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "layer",
				Name:      "bytes_total",
				Help:      "Bytes passed through a layer component.",
			},
			[]string{"component", "direction"},
		),
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "layer",
				Name:      "frames_total",
				Help:      "Buffers passed through a layer component.",
			},
			[]string{"component", "direction"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "layer",
				Name:      "errors_total",
				Help:      "Routing and send failures per layer component.",
			},
			[]string{"component", "kind"},
		),
		queueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "layer",
				Name:      "queue_depth",
				Help:      "Buffers waiting in an outbound queue.",
			},
			[]string{"component"},
		),
		components: make(map[string]*componentCounter),
	}
	c.registry.MustRegister(c.bytes, c.frames, c.errors, c.queueDepth)
	return c
}

func (c *Collector) counter(component string) *componentCounter {
	c.mu.RLock()
	cc, ok := c.components[component]
	c.mu.RUnlock()
	if ok {
		return cc
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cc, ok = c.components[component]; ok {
		return cc
	}
	cc = &componentCounter{rateIn: NewRateMeter(), rateOut: NewRateMeter()}
	c.components[component] = cc
	return cc
}

// ObserveReceive 记录入站缓冲
func (c *Collector) ObserveReceive(component string, size int) {
	c.bytes.WithLabelValues(component, "in").Add(float64(size))
	c.frames.WithLabelValues(component, "in").Inc()

	cc := c.counter(component)
	cc.bytesIn.Add(int64(size))
	cc.framesIn.Add(1)
	cc.rateIn.Add(int64(size))
}

// ObserveSend 记录出站缓冲
func (c *Collector) ObserveSend(component string, size int) {
	c.bytes.WithLabelValues(component, "out").Add(float64(size))
	c.frames.WithLabelValues(component, "out").Inc()

	cc := c.counter(component)
	cc.bytesOut.Add(int64(size))
	cc.framesOut.Add(1)
	cc.rateOut.Add(int64(size))
}

// ObserveError 记录一次失败
func (c *Collector) ObserveError(component, kind string) {
	c.errors.WithLabelValues(component, kind).Inc()
	c.counter(component).errors.Add(1)
}

// ObserveQueueDepth 记录队列深度
func (c *Collector) ObserveQueueDepth(component string, depth int) {
	c.queueDepth.WithLabelValues(component).Set(float64(depth))
	c.counter(component).queueDepth.Store(int64(depth))
}

// Snapshot 返回组件的进程内统计
func (c *Collector) Snapshot(component string) Stats {
	c.mu.RLock()
	cc, ok := c.components[component]
	c.mu.RUnlock()
	if !ok {
		return Stats{}
	}
	return Stats{
		BytesIn:    cc.bytesIn.Load(),
		BytesOut:   cc.bytesOut.Load(),
		FramesIn:   cc.framesIn.Load(),
		FramesOut:  cc.framesOut.Load(),
		Errors:     cc.errors.Load(),
		QueueDepth: int(cc.queueDepth.Load()),
		RateIn:     cc.rateIn.Rate(),
		RateOut:    cc.rateOut.Rate(),
	}
}

// Components 返回已上报过的组件名（排序）
func (c *Collector) Components() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.components))
	for name := range c.components {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Registry 返回底层 Registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler 返回暴露本 Collector 指标的 HTTP handler
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
