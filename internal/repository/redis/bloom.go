package redis

import (
	"context"
	"fmt"
	"hash/crc32"
	"hash/fnv"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
	"github.com/redis/go-redis/v9"
)

const (
	KeyUserBloom = "bloom:user:ids"

	// bloomHashCount is k, the number of bits set per user id.
	bloomHashCount = 3
)

// userBloomFilter tracks registered user ids in a redis bitmap so a feed
// read for an id that was never registered is rejected before it can hit
// the cache or the database.
type userBloomFilter struct {
	client  *redis.Client
	bitSize uint64
}

var _ domain.BloomRepository = (*userBloomFilter)(nil)

func NewUserBloomFilter(client *redis.Client, bitSize uint64) *userBloomFilter {
	return &userBloomFilter{
		client:  client,
		bitSize: bitSize,
	}
}

func (r *userBloomFilter) Add(ctx context.Context, id int64) error {
	pipe := r.client.Pipeline()
	for _, pos := range r.bitPositions(id) {
		pipe.SetBit(ctx, KeyUserBloom, int64(pos), 1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *userBloomFilter) Exists(ctx context.Context, id int64) (bool, error) {
	pipe := r.client.Pipeline()
	for _, pos := range r.bitPositions(id) {
		pipe.GetBit(ctx, KeyUserBloom, int64(pos))
	}
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}

	// 任意一位为 0 即绝对不存在
	for _, cmd := range cmds {
		val, err := cmd.(*redis.IntCmd).Result()
		if err != nil {
			return false, err
		}
		if val == 0 {
			return false, nil
		}
	}

	return true, nil
}

// BulkAdd seeds the filter at startup, one pipeline per call.
func (r *userBloomFilter) BulkAdd(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, id := range ids {
		for _, pos := range r.bitPositions(id) {
			pipe.SetBit(ctx, KeyUserBloom, int64(pos), 1)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// bitPositions derives the k bit offsets for one id by double hashing:
// pos_i = (h1 + i*h2) mod m, 用两个哈希模拟 k 个独立哈希函数.
func (r *userBloomFilter) bitPositions(id int64) []uint64 {
	data := fmt.Appendf(nil, "%d", id)

	f := fnv.New64a()
	f.Write(data)
	h1 := f.Sum64()

	h2 := uint64(crc32.ChecksumIEEE(data))
	if h2 == 0 {
		h2 = 0x9E3779B9
	}

	positions := make([]uint64, bloomHashCount)
	for i := range positions {
		positions[i] = (h1 + uint64(i)*h2) % r.bitSize
	}
	return positions
}
