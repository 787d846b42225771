package mysql

import (
	"context"
	"errors"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/repository/mysql/model"
	"gorm.io/gorm"
)

type followRepository struct {
	DB *gorm.DB
}

var _ domain.FollowRepository = (*followRepository)(nil)

// NewFollowRepository will create an implementation of domain.FollowRepository
func NewFollowRepository(db *gorm.DB) *followRepository {
	return &followRepository{
		DB: db,
	}
}

func (m *followRepository) Store(ctx context.Context, f *domain.Follow) error {
	followModel := model.NewFollowFromDomain(f)

	err := m.DB.WithContext(ctx).Create(&followModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (m *followRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
	result := m.DB.WithContext(ctx).
		Delete(&model.Follow{}, "follower_id = ? AND followee_id = ?", followerID, followeeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *followRepository) GetFollowing(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := m.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Pluck("followee_id", &ids).Error
	return ids, err
}

func (m *followRepository) GetFollowers(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := m.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("followee_id = ?", userID).
		Order("created_at DESC").
		Pluck("follower_id", &ids).Error
	return ids, err
}
