package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/repository/mysql/model"
	"gorm.io/gorm"
)

type postRepository struct {
	DB *gorm.DB
}

var _ domain.PostRepository = (*postRepository)(nil)

// NewPostRepository will create an implementation of domain.PostRepository
func NewPostRepository(db *gorm.DB) *postRepository {
	return &postRepository{
		DB: db,
	}
}

func (m *postRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	var post model.Post
	if err := m.DB.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Post{}, domain.ErrNotFound
		}
		return domain.Post{}, err
	}

	return post.ToDomain(), nil
}

func (m *postRepository) GetByAuthor(ctx context.Context, authorID int64, limit int64) ([]domain.Post, error) {
	var posts []model.Post
	err := m.DB.WithContext(ctx).Model(&model.Post{}).
		Where("user_id = ?", authorID).
		Order("created_at DESC").
		Limit(int(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToDomain()
	}
	return res, nil
}

func (m *postRepository) FetchRecent(ctx context.Context, limit, offset int64) ([]domain.Post, error) {
	var posts []model.Post
	err := m.DB.WithContext(ctx).Model(&model.Post{}).
		Order("created_at DESC").
		Limit(int(limit)).
		Offset(int(offset)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToDomain()
	}
	return res, nil
}

func (m *postRepository) FetchTrending(ctx context.Context, limit int64, window time.Duration) ([]domain.Post, error) {
	var posts []model.Post
	since := time.Now().Add(-window)
	err := m.DB.WithContext(ctx).Model(&model.Post{}).
		Where("created_at >= ?", since).
		Order("likes DESC, created_at DESC").
		Limit(int(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToDomain()
	}
	return res, nil
}

func (m *postRepository) Store(ctx context.Context, p *domain.Post) error {
	postModel := model.NewPostFromDomain(p)

	result := m.DB.WithContext(ctx).Create(&postModel)
	if result.Error != nil {
		return result.Error
	}

	p.ID = postModel.ID

	return nil
}

func (m *postRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
