package rest

import (
	"net/http"
	"strconv"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
	"github.com/gin-gonic/gin"
)

// FollowHandler represent the httphandler for the social graph
type FollowHandler struct {
	Service domain.FollowUsecase
}

func NewFollowHandler(svc domain.FollowUsecase) *FollowHandler {
	return &FollowHandler{
		Service: svc,
	}
}

// Follow creates a follow edge from the authenticated user to :id
func (h *FollowHandler) Follow(c *gin.Context) {
	followeeID, userID, ok := h.edgeParams(c)
	if !ok {
		return
	}

	if err := h.Service.Follow(c.Request.Context(), userID, followeeID); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

// Unfollow removes the follow edge from the authenticated user to :id
func (h *FollowHandler) Unfollow(c *gin.Context) {
	followeeID, userID, ok := h.edgeParams(c)
	if !ok {
		return
	}

	if err := h.Service.Unfollow(c.Request.Context(), userID, followeeID); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Following lists the IDs followed by :id
func (h *FollowHandler) Following(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	ids, err := h.Service.Following(c.Request.Context(), int64(idP))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_ids": ids})
}

// Followers lists the IDs following :id
func (h *FollowHandler) Followers(c *gin.Context) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	ids, err := h.Service.Followers(c.Request.Context(), int64(idP))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_ids": ids})
}

func (h *FollowHandler) edgeParams(c *gin.Context) (followeeID, userID int64, ok bool) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return 0, 0, false
	}

	uid, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, 0, false
	}
	return int64(idP), uid.(int64), true
}
