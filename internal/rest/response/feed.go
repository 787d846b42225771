package response

import (
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

type FeedItem struct {
	PostID         int64  `json:"post_id"`
	AuthorID       int64  `json:"author_id"`
	AuthorUsername string `json:"author_username"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

type UserFeed struct {
	UserID      int64      `json:"user_id"`
	Items       []FeedItem `json:"items"`
	LastUpdated string     `json:"last_updated"`
	TotalItems  int64      `json:"total_items"`
}

type TrendingFeed struct {
	Items      []FeedItem `json:"items"`
	Timeframe  string     `json:"timeframe"`
	TotalItems int64      `json:"total_items"`
}

type RecentFeed struct {
	Items      []FeedItem `json:"items"`
	TotalItems int64      `json:"total_items"`
}

// FromDomain: Domain -> Response
func NewFeedItemFromDomain(it *domain.FeedItem) FeedItem {
	res := FeedItem{
		PostID:         it.PostID,
		AuthorID:       it.AuthorID,
		AuthorUsername: it.AuthorUsername,
		Content:        it.Content,
		CreatedAt:      it.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if !it.UpdatedAt.IsZero() {
		res.UpdatedAt = it.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return res
}

func newFeedItems(items []domain.FeedItem) []FeedItem {
	res := make([]FeedItem, len(items))
	for i := range items {
		res[i] = NewFeedItemFromDomain(&items[i])
	}
	return res
}

func NewUserFeedFromDomain(f *domain.UserFeed) UserFeed {
	return UserFeed{
		UserID:      f.UserID,
		Items:       newFeedItems(f.Items),
		LastUpdated: f.LastUpdated.Format("2006-01-02 15:04:05"),
		TotalItems:  f.TotalItems,
	}
}

func NewTrendingFeedFromDomain(f *domain.TrendingFeed) TrendingFeed {
	return TrendingFeed{
		Items:      newFeedItems(f.Items),
		Timeframe:  string(f.Timeframe),
		TotalItems: f.TotalItems,
	}
}

func NewRecentFeedFromDomain(f *domain.RecentFeed) RecentFeed {
	return RecentFeed{
		Items:      newFeedItems(f.Items),
		TotalItems: f.TotalItems,
	}
}
