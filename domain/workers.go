package domain

import "context"

type FanoutWorker interface {
	Start(ctx context.Context)

	// Send enqueues one user whose cached feed must be invalidated.
	// Non-blocking: when the queue is full the task is dropped and the
	// stale feed simply expires by TTL instead.
	Send(userID int64)
}
