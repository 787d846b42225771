package response

import (
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

type Post struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	UserID    int64  `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	Likes     int64  `json:"likes"`
	UpdatedAt string `json:"updated_at"`
	CreatedAt string `json:"created_at"`
}

// FromDomain: Domain -> Response
func NewPostFromDomain(p *domain.Post) Post {
	return Post{
		ID:        p.ID,
		Content:   p.Content,
		UserID:    p.User.ID,
		UserName:  p.User.Username,
		Likes:     p.Likes,
		UpdatedAt: p.UpdatedAt.Format("2006-01-02 15:04:05"),
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
