package domain

import "context"

// BloomRepository tracks the set of registered user IDs so that feed reads
// for users that were never registered can be rejected without touching the
// cache or any upstream system.
type BloomRepository interface {
	// Add 将用户ID加入过滤器
	Add(ctx context.Context, id int64) error

	// Exists 检查 ID 是否可能存在
	// 返回 true: 可能存在 (需要进一步查 Cache/DB)
	// 返回 false: 绝对不存在 (直接返回 404)
	Exists(ctx context.Context, id int64) (bool, error)

	// BulkAdd 用于启动时批量灌入已注册的用户ID
	BulkAdd(ctx context.Context, ids []int64) error
}
