package metrics

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Observe(t *testing.T) {
	c := NewCollector("test")

	c.ObserveReceive("fanout", 10)
	c.ObserveReceive("fanout", 5)
	c.ObserveSend("fanout", 7)
	c.ObserveError("fanin", "route")
	c.ObserveQueueDepth("halfduplex", 3)

	body := scrape(t, c)
	assert.Contains(t, body, `test_layer_bytes_total{component="fanout",direction="in"} 15`)
	assert.Contains(t, body, `test_layer_frames_total{component="fanout",direction="in"} 2`)
	assert.Contains(t, body, `test_layer_bytes_total{component="fanout",direction="out"} 7`)
	assert.Contains(t, body, `test_layer_errors_total{component="fanin",kind="route"} 1`)
	assert.Contains(t, body, `test_layer_queue_depth{component="halfduplex"} 3`)

	s := c.Snapshot("fanout")
	assert.Equal(t, int64(15), s.BytesIn)
	assert.Equal(t, int64(2), s.FramesIn)
	assert.Equal(t, int64(7), s.BytesOut)
	assert.Equal(t, int64(1), s.FramesOut)
	assert.Greater(t, s.RateIn, 0.0)

	assert.Equal(t, int64(1), c.Snapshot("fanin").Errors)
	assert.Equal(t, 3, c.Snapshot("halfduplex").QueueDepth)
	assert.Equal(t, Stats{}, c.Snapshot("unknown"))
	assert.Equal(t, []string{"fanin", "fanout", "halfduplex"}, c.Components())
}

func TestCollector_Independent(t *testing.T) {
	a := NewCollector("sansio")
	b := NewCollector("sansio")

	a.ObserveSend("fanout", 1)
	assert.Contains(t, scrape(t, a), "sansio_layer_bytes_total")
	assert.NotContains(t, scrape(t, b), "sansio_layer_bytes_total{")
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector("test")

	const goroutines, ops = 50, 100
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < ops; j++ {
				c.ObserveSend("fanout", 2)
				c.ObserveReceive("fanin", 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(goroutines*ops*2), c.Snapshot("fanout").BytesOut)
	assert.Equal(t, int64(goroutines*ops), c.Snapshot("fanin").FramesIn)
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("sansio")
	c.ObserveSend("fanout", 42)

	body := scrape(t, c)
	assert.True(t, strings.Contains(body, `sansio_layer_bytes_total{component="fanout",direction="out"} 42`), body)
}

// scrape 通过 Handler 取回文本格式的指标
func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}
