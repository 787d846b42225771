package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, smock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(gmysql.New(gmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gdb, smock
}

func postRows(posts ...domain.Post) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "content", "user_id", "likes", "updated_at", "created_at"})
	for _, p := range posts {
		rows.AddRow(p.ID, p.Content, p.User.ID, p.Likes, p.UpdatedAt, p.CreatedAt)
	}
	return rows
}

func TestPostGetByAuthor(t *testing.T) {
	gdb, smock := newMockDB(t)
	repo := NewPostRepository(gdb)
	now := time.Now()

	smock.ExpectQuery("SELECT (.+) FROM `post` WHERE user_id = (.+) ORDER BY created_at DESC LIMIT (.+)").
		WillReturnRows(postRows(
			domain.Post{ID: 2, Content: "newer", User: domain.User{ID: 7}, CreatedAt: now},
			domain.Post{ID: 1, Content: "older", User: domain.User{ID: 7}, CreatedAt: now.Add(-time.Hour)},
		))

	got, err := repo.GetByAuthor(context.Background(), 7, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(7), got[0].User.ID)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestPostGetByIDNotFound(t *testing.T) {
	gdb, smock := newMockDB(t)
	repo := NewPostRepository(gdb)

	smock.ExpectQuery("SELECT (.+) FROM `post` WHERE id = (.+)").
		WillReturnRows(postRows())

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostFetchTrendingWindow(t *testing.T) {
	gdb, smock := newMockDB(t)
	repo := NewPostRepository(gdb)
	now := time.Now()

	smock.ExpectQuery("SELECT (.+) FROM `post` WHERE created_at >= (.+) ORDER BY likes DESC, created_at DESC LIMIT (.+)").
		WillReturnRows(postRows(
			domain.Post{ID: 3, Content: "hot", User: domain.User{ID: 5}, Likes: 99, CreatedAt: now},
		))

	got, err := repo.FetchTrending(context.Background(), 10, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(99), got[0].Likes)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestPostFetchRecentPagination(t *testing.T) {
	gdb, smock := newMockDB(t)
	repo := NewPostRepository(gdb)

	smock.ExpectQuery("SELECT (.+) FROM `post` ORDER BY created_at DESC LIMIT (.+)").
		WillReturnRows(postRows())

	got, err := repo.FetchRecent(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPostDeleteNotFound(t *testing.T) {
	gdb, smock := newMockDB(t)
	repo := NewPostRepository(gdb)

	smock.ExpectExec("DELETE FROM `post` WHERE id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFollowGetFollowing(t *testing.T) {
	gdb, smock := newMockDB(t)
	repo := NewFollowRepository(gdb)

	rows := sqlmock.NewRows([]string{"followee_id"}).AddRow(2).AddRow(3)
	smock.ExpectQuery("SELECT `followee_id` FROM `follow` WHERE follower_id = (.+) ORDER BY created_at DESC").
		WillReturnRows(rows)

	got, err := repo.GetFollowing(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, got)
}

func TestFollowDeleteMissingEdge(t *testing.T) {
	gdb, smock := newMockDB(t)
	repo := NewFollowRepository(gdb)

	smock.ExpectExec("DELETE FROM `follow` WHERE follower_id = (.+) AND followee_id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 1, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
