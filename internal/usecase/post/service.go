package post

import (
	"context"
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

type Service struct {
	postRepo domain.PostRepository
	feedSvc  domain.FeedUsecase
}

var _ domain.PostUsecase = (*Service)(nil)

// NewService will create a new post service object
func NewService(p domain.PostRepository, feedSvc domain.FeedUsecase) *Service {
	return &Service{
		postRepo: p,
		feedSvc:  feedSvc,
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	if id <= 0 {
		return domain.Post{}, domain.ErrBadParamInput
	}
	return s.postRepo.GetByID(ctx, id)
}

func (s *Service) Store(ctx context.Context, p *domain.Post) error {
	if p.User.ID <= 0 || p.Content == "" {
		return domain.ErrBadParamInput
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.postRepo.Store(ctx, p); err != nil {
		return err
	}

	// 发帖成功后异步让所有粉丝的缓存失效, 绝不阻塞发帖
	go s.feedSvc.OnNewPost(context.WithoutCancel(ctx), p.User.ID)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	existed, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existed.User.ID != userID {
		return domain.ErrNotFound
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	// deleting a post stales followers' feeds the same way creating one does
	go s.feedSvc.OnNewPost(context.WithoutCancel(ctx), userID)
	return nil
}
