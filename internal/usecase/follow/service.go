package follow

import (
	"context"
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

type Service struct {
	followRepo domain.FollowRepository
	feedSvc    domain.FeedUsecase
}

var _ domain.FollowUsecase = (*Service)(nil)

// NewService will create a new follow service object
func NewService(f domain.FollowRepository, feedSvc domain.FeedUsecase) *Service {
	return &Service{
		followRepo: f,
		feedSvc:    feedSvc,
	}
}

func (s *Service) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID <= 0 || followeeID <= 0 || followerID == followeeID {
		return domain.ErrBadParamInput
	}

	err := s.followRepo.Store(ctx, &domain.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return err
	}

	// the follower's own feed content changed; nobody else's did
	s.feedSvc.OnFollowChange(ctx, followerID)
	return nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if followerID <= 0 || followeeID <= 0 {
		return domain.ErrBadParamInput
	}

	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		return err
	}

	s.feedSvc.OnFollowChange(ctx, followerID)
	return nil
}

func (s *Service) Following(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, domain.ErrBadParamInput
	}
	return s.followRepo.GetFollowing(ctx, userID)
}

func (s *Service) Followers(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, domain.ErrBadParamInput
	}
	return s.followRepo.GetFollowers(ctx, userID)
}
