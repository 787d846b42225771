package user

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

type mockUserRepo struct{ mock.Mock }

var _ domain.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, userIDs []int64) ([]domain.User, error) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) Insert(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	args := m.Called(ctx, cursor, limit)
	return args.Get(0).([]int64), args.Error(1)
}

type mockBloomRepo struct{ mock.Mock }

var _ domain.BloomRepository = (*mockBloomRepo)(nil)

func (m *mockBloomRepo) Add(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBloomRepo) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockBloomRepo) BulkAdd(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func newService(repo *mockUserRepo, bloom *mockBloomRepo) *Service {
	return NewService(repo, bloom, []byte("test-secret"), time.Hour)
}

func TestRegisterConflictOnExistingUsername(t *testing.T) {
	repo := new(mockUserRepo)
	bloom := new(mockBloomRepo)
	repo.On("GetByUsername", mock.Anything, "taken").
		Return(domain.User{ID: 1, Username: "taken"}, nil)

	err := newService(repo, bloom).Register(context.Background(), "Some One", "taken", "a@b.c", "secret123")

	assert.ErrorIs(t, err, domain.ErrConflict)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRegisterHashesPasswordAndSeedsBloom(t *testing.T) {
	repo := new(mockUserRepo)
	bloom := new(mockBloomRepo)
	repo.On("GetByUsername", mock.Anything, "fresh").
		Return(domain.User{}, domain.ErrNotFound)
	repo.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			u.ID = 9
			assert.NotEqual(t, "secret123", u.Password)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123")))
		}).
		Return(nil)
	bloom.On("Add", mock.Anything, int64(9)).Return(nil)

	err := newService(repo, bloom).Register(context.Background(), "Some One", "fresh", "a@b.c", "secret123")

	require.NoError(t, err)
	bloom.AssertExpectations(t)
}

func TestRegisterSucceedsWhenBloomAddFails(t *testing.T) {
	repo := new(mockUserRepo)
	bloom := new(mockBloomRepo)
	repo.On("GetByUsername", mock.Anything, "fresh").
		Return(domain.User{}, domain.ErrNotFound)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	bloom.On("Add", mock.Anything, mock.Anything).Return(domain.ErrInternalServerError)

	err := newService(repo, bloom).Register(context.Background(), "Some One", "fresh", "a@b.c", "secret123")

	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := new(mockUserRepo)
	bloom := new(mockBloomRepo)
	repo.On("GetByUsername", mock.Anything, "alice").
		Return(domain.User{ID: 3, Username: "alice", Password: string(hashed)}, nil)

	_, err = newService(repo, bloom).Login(context.Background(), "alice", "wrong")

	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestLoginIssuesSignedToken(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := new(mockUserRepo)
	bloom := new(mockBloomRepo)
	repo.On("GetByUsername", mock.Anything, "alice").
		Return(domain.User{ID: 3, Username: "alice", Password: string(hashed)}, nil)

	tokenStr, err := newService(repo, bloom).Login(context.Background(), "alice", "right")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenStr, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(3), claims["user_id"])
}

func TestLoginUnknownUser(t *testing.T) {
	repo := new(mockUserRepo)
	bloom := new(mockBloomRepo)
	repo.On("GetByUsername", mock.Anything, "ghost").
		Return(domain.User{}, domain.ErrNotFound)

	_, err := newService(repo, bloom).Login(context.Background(), "ghost", "whatever")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByIDValidatesID(t *testing.T) {
	repo := new(mockUserRepo)
	bloom := new(mockBloomRepo)

	_, err := newService(repo, bloom).GetByID(context.Background(), 0)

	assert.ErrorIs(t, err, domain.ErrBadParamInput)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestInitBloomFilterPagesThroughAllIDs(t *testing.T) {
	repo := new(mockUserRepo)
	bloom := new(mockBloomRepo)

	first := make([]int64, bloomSeedBatch)
	for i := range first {
		first[i] = int64(i + 1)
	}
	second := []int64{int64(bloomSeedBatch + 1)}

	repo.On("FetchIDs", mock.Anything, int64(0), int64(bloomSeedBatch)).Return(first, nil)
	repo.On("FetchIDs", mock.Anything, int64(bloomSeedBatch), int64(bloomSeedBatch)).Return(second, nil)
	bloom.On("BulkAdd", mock.Anything, first).Return(nil)
	bloom.On("BulkAdd", mock.Anything, second).Return(nil)

	err := newService(repo, bloom).InitBloomFilter(context.Background())

	require.NoError(t, err)
	repo.AssertExpectations(t)
	bloom.AssertExpectations(t)
}
