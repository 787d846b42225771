package redis

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBloomBits = 1 << 20

func TestBloomAddSetsAllBits(t *testing.T) {
	client, mock := redismock.NewClientMock()
	filter := NewUserBloomFilter(client, testBloomBits)

	for _, pos := range filter.bitPositions(42) {
		mock.ExpectSetBit(KeyUserBloom, int64(pos), 1).SetVal(0)
	}

	require.NoError(t, filter.Add(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBloomExistsWhenAllBitsSet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	filter := NewUserBloomFilter(client, testBloomBits)

	for _, pos := range filter.bitPositions(42) {
		mock.ExpectGetBit(KeyUserBloom, int64(pos)).SetVal(1)
	}

	ok, err := filter.Exists(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBloomDefinitelyAbsentOnAnyZeroBit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	filter := NewUserBloomFilter(client, testBloomBits)

	positions := filter.bitPositions(42)
	mock.ExpectGetBit(KeyUserBloom, int64(positions[0])).SetVal(1)
	mock.ExpectGetBit(KeyUserBloom, int64(positions[1])).SetVal(0)
	mock.ExpectGetBit(KeyUserBloom, int64(positions[2])).SetVal(1)

	ok, err := filter.Exists(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBloomBulkAddPipelinesAllIDs(t *testing.T) {
	client, mock := redismock.NewClientMock()
	filter := NewUserBloomFilter(client, testBloomBits)

	for _, id := range []int64{1, 2, 3} {
		for _, pos := range filter.bitPositions(id) {
			mock.ExpectSetBit(KeyUserBloom, int64(pos), 1).SetVal(0)
		}
	}

	require.NoError(t, filter.BulkAdd(context.Background(), []int64{1, 2, 3}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBloomBulkAddEmptyIsNoop(t *testing.T) {
	client, mock := redismock.NewClientMock()
	filter := NewUserBloomFilter(client, testBloomBits)

	require.NoError(t, filter.BulkAdd(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBloomBitPositionsAreStableAndBounded(t *testing.T) {
	filter := NewUserBloomFilter(nil, testBloomBits)

	first := filter.bitPositions(99)
	second := filter.bitPositions(99)
	assert.Equal(t, first, second)
	require.Len(t, first, bloomHashCount)
	for _, pos := range first {
		assert.Less(t, pos, uint64(testBloomBits))
	}
}
