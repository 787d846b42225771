package request

import "github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"

type Post struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// ToDomain: Request -> Domain
func (r *Post) ToDomain() domain.Post {
	return domain.Post{
		Content: r.Content,
	}
}
