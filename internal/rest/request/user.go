package request

type Register struct {
	Name     string `json:"name" binding:"required,max=45"`
	Username string `json:"username" binding:"required,alphanum,min=3,max=45"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type Login struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
