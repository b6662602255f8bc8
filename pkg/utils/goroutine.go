package utils

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineLeakDetector fails a test when goroutines started during it are
// still running at the end, such as workers of an abandoned batch.
type GoroutineLeakDetector struct {
	tb             testing.TB
	initialCount   int
	allowedGrowth  int
	checkInterval  time.Duration
	stabilizeDelay time.Duration
}

// NewGoroutineLeakDetector creates a new goroutine leak detector
func NewGoroutineLeakDetector(tb testing.TB) *GoroutineLeakDetector {
	return &GoroutineLeakDetector{
		tb:             tb,
		checkInterval:  50 * time.Millisecond,
		stabilizeDelay: 100 * time.Millisecond,
	}
}

// Start records the initial goroutine count
func (d *GoroutineLeakDetector) Start() *GoroutineLeakDetector {
	time.Sleep(d.stabilizeDelay)
	d.initialCount = runtime.NumGoroutine()
	return d
}

// Check verifies that the goroutine count has not grown beyond the allowed
// threshold. The lowest of several samples is used, since exiting goroutines
// may still be counted briefly.
func (d *GoroutineLeakDetector) Check() {
	d.tb.Helper()
	time.Sleep(d.stabilizeDelay)

	finalCount := runtime.NumGoroutine()
	for i := 0; i < 2 && finalCount-d.initialCount > d.allowedGrowth; i++ {
		time.Sleep(d.checkInterval)
		if c := runtime.NumGoroutine(); c < finalCount {
			finalCount = c
		}
	}

	leaked := finalCount - d.initialCount
	if leaked > d.allowedGrowth {
		buf := make([]byte, 1<<20)
		stackLen := runtime.Stack(buf, true)
		d.tb.Errorf("Goroutine leak detected: started with %d, ended with %d (leaked: %d, allowed: %d)\n%s",
			d.initialCount, finalCount, leaked, d.allowedGrowth, buf[:stackLen])
	}
}

// SetAllowedGrowth sets the number of goroutines allowed to grow
func (d *GoroutineLeakDetector) SetAllowedGrowth(n int) *GoroutineLeakDetector {
	d.allowedGrowth = n
	return d
}

// SetStabilizeDelay sets the delay to allow goroutines to stabilize
func (d *GoroutineLeakDetector) SetStabilizeDelay(delay time.Duration) *GoroutineLeakDetector {
	d.stabilizeDelay = delay
	return d
}
