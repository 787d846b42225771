package workers

import (
	"context"
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
	"github.com/sirupsen/logrus"
)

type invalidateFeedsWorker struct {
	feedCache domain.FeedCache
	ch        chan int64
}

var _ domain.FanoutWorker = (*invalidateFeedsWorker)(nil)

func NewInvalidateFeedsWorker(fc domain.FeedCache) *invalidateFeedsWorker {
	return &invalidateFeedsWorker{
		feedCache: fc,
		ch:        make(chan int64, 4096),
	}
}

// Send enqueues one follower whose cached feed must be deleted.
func (w invalidateFeedsWorker) Send(userID int64) {
	select {
	case w.ch <- userID:
	default:
		logrus.Info("InvalidateFeedsWorker's channel is full, task dropped")
	}
}

func (w invalidateFeedsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	const batchSize = 512
	batch := make([]int64, 0, batchSize)
	for {
		select {
		case uid := <-w.ch:
			batch = append(batch, uid)
			if len(batch) == batchSize {
				w.flush(ctx, batch)
				batch = make([]int64, 0, batchSize)
			}
		case <-ticker.C:
			w.flush(ctx, batch)
			batch = make([]int64, 0, batchSize)
		case <-ctx.Done():
			logrus.Info("shutting down InvalidateFeedsWorker, flushing remaining tasks...")
			for {
				select {
				case uid := <-w.ch:
					batch = append(batch, uid)
				default:
					w.flush(context.WithoutCancel(ctx), batch)
					return
				}
			}
		}
	}
}

// flush deduplicates the batch and issues one multi-key delete.
func (w invalidateFeedsWorker) flush(ctx context.Context, batch []int64) {
	if len(batch) == 0 {
		return
	}
	seen := make(map[int64]bool, len(batch))
	uids := make([]int64, 0, len(batch))
	for _, uid := range batch {
		if seen[uid] {
			continue
		}
		seen[uid] = true
		uids = append(uids, uid)
	}

	if err := w.feedCache.InvalidateMany(ctx, uids); err != nil {
		logrus.Errorf("failed to invalidate %d feeds, they will expire by TTL: %v", len(uids), err)
	}
}
