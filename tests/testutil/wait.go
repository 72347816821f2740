// Package testutil 提供测试辅助工具
package testutil

import (
	"context"
	"testing"
	"time"
)

// WaitForCondition 等待条件满足或超时
//
// 先立即检查一次，之后每隔 interval 检查；超时返回 false。
func WaitForCondition(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if condition() {
		return true
	}
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// Eventually 在 timeout 内每 10ms 重试一次，超时则 fail 测试
//
// 用于等待读循环、accept 循环等后台 goroutine 的结果：
//
//	testutil.Eventually(t, time.Second, func() bool {
//	    return m.Len() == 2
//	}, "两个连接都应绑定到 mux")
func Eventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	if !WaitForCondition(t, timeout, 10*time.Millisecond, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}
