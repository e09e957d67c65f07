// internal/node/runner.go
package node

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Run ticks, then sleeps for the interval, until ctx is cancelled.
// No overlap. No retries. Failures never stop the loop.
func (n *Node) Run(ctx context.Context) {
	n.log.Info("node started", zap.Duration("interval", n.cfg.Interval))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			n.log.Info("node stopped")
			return
		case <-timer.C:
			n.Tick()
			timer.Reset(n.cfg.Interval)
		}
	}
}
