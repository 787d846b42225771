package response

import (
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
)

type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
}

// FromDomain: Domain -> Response, password is never exposed
func NewUserFromDomain(u *domain.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
