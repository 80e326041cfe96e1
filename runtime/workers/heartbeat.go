package workers

import (
	"chat-local/contract"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker logs the process health and a summary of the chat state
// every interval.
type HeartbeatWorker struct {
	log      *slog.Logger
	clock    clockwork.Clock
	stats    contract.StatsSource
	interval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, clock clockwork.Clock, stats contract.StatsSource,
	interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, clock: clock, stats: stats, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	// No process handle only means no cpu/ram in the report
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Warn("Process stats unavailable", "error", err)
		p = nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			w.beat(p)
		}
	}
}

func (w *HeartbeatWorker) beat(p *process.Process) {
	stats := w.stats.Stats()
	attrs := []any{
		"chats", stats.Chats,
		"unread", stats.Unread,
		"conversations", stats.Conversations,
		"messages", stats.Messages,
		"pending_replies", stats.PendingReplies,
	}
	if p != nil {
		if rss, cpu, err := selfStats(p); err != nil {
			w.log.Debug("Failed to collect self stats", "error", err)
		} else {
			attrs = append(attrs, "rss_bytes", rss, "cpu_percent", cpu)
		}
	}
	w.log.Info("Heartbeat", attrs...)
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
