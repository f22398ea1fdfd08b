package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// WorkerService periodically re-broadcasts the ranked queue. Scores drift as
// patients wait, so observers would otherwise hold a stale order between
// mutations.
type WorkerService struct {
	queue    *QueueService
	interval time.Duration
	logger   *zap.Logger
}

func NewWorkerService(queue *QueueService, interval time.Duration, logger *zap.Logger) *WorkerService {
	return &WorkerService{
		queue:    queue,
		interval: interval,
		logger:   logger,
	}
}

// Start runs until ctx is cancelled. A non-positive interval disables the worker.
func (w *WorkerService) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("Queue refresh worker disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Queue refresh worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Queue refresh worker stopped")
			return
		case <-ticker.C:
			if w.queue.Rebroadcast() {
				w.logger.Debug("queue snapshot re-broadcast")
			}
		}
	}
}
