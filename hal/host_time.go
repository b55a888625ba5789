//go:build !tinygo

package hal

import (
	"context"
	"time"
)

type hostTime struct {
	start time.Time
}

func newHostTime() *hostTime {
	return &hostTime{start: time.Now()}
}

func (t *hostTime) Millis() uint32 {
	return uint32(time.Since(t.start) / time.Millisecond)
}

func (t *hostTime) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (t *hostTime) Now() time.Time { return time.Now() }
