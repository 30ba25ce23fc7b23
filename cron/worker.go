package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// IdleEvictor is implemented by the assistant service.
type IdleEvictor interface {
	EvictIdle(maxIdle time.Duration) int
}

// StartSessionJanitor evicts idle assistant sessions every interval until ctx
// is done. The returned cron is already running.
func StartSessionJanitor(ctx context.Context, evictor IdleEvictor, interval, maxIdle time.Duration, logger *zap.Logger) (*cron.Cron, error) {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := cron.New(cron.WithChain(cron.Recover(cronLogger{logger})))
	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if n := evictor.EvictIdle(maxIdle); n > 0 {
			logger.Info("[SessionJanitor] evicted idle sessions", zap.Int("count", n))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule session janitor: %w", err)
	}
	c.Start()
	logger.Info("[SessionJanitor] started", zap.Duration("interval", interval), zap.Duration("max_idle", maxIdle))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		logger.Info("[SessionJanitor] stopped")
	}()
	return c, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
