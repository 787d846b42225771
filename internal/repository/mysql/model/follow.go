package model

import (
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

type Follow struct {
	FollowerID int64     `gorm:"column:follower_id;primaryKey"`
	FolloweeID int64     `gorm:"column:followee_id;primaryKey"`
	CreatedAt  time.Time `gorm:"type:datetime"`
}

func (Follow) TableName() string {
	return "follow"
}

func (m *Follow) ToDomain() domain.Follow {
	return domain.Follow{
		FollowerID: m.FollowerID,
		FolloweeID: m.FolloweeID,
		CreatedAt:  m.CreatedAt,
	}
}

func NewFollowFromDomain(f *domain.Follow) *Follow {
	return &Follow{
		FollowerID: f.FollowerID,
		FolloweeID: f.FolloweeID,
		CreatedAt:  f.CreatedAt,
	}
}
