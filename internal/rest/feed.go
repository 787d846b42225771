package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Guyuepp/Go-Clean-Architecture-Feed/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Feed/internal/rest/response"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

const (
	DefaultFeedLimit     = 20
	DefaultTimelineLimit = 50
	DefaultTrendingLimit = 10
	DefaultRecentLimit   = 20
	PageMaxLimit         = 100
)

// FeedHandler represent the httphandler for feed
type FeedHandler struct {
	Service domain.FeedUsecase
}

func NewFeedHandler(svc domain.FeedUsecase) *FeedHandler {
	return &FeedHandler{
		Service: svc,
	}
}

// GetFeed serves the authenticated user's home feed
func (h *FeedHandler) GetFeed(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	limit, offset := paginationParams(c, DefaultFeedLimit)

	feed, err := h.Service.GetFeed(c.Request.Context(), userID.(int64), limit, offset)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewUserFeedFromDomain(&feed))
}

// GetTimeline serves the same content with a larger default page size
func (h *FeedHandler) GetTimeline(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	limit, offset := paginationParams(c, DefaultTimelineLimit)

	feed, err := h.Service.GetTimeline(c.Request.Context(), userID.(int64), limit, offset)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewUserFeedFromDomain(&feed))
}

// GetTrending serves the public trending view
func (h *FeedHandler) GetTrending(c *gin.Context) {
	limit, _ := paginationParams(c, DefaultTrendingLimit)

	timeframe, err := domain.ParseTimeframe(c.DefaultQuery("timeframe", string(domain.TimeframeDay)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timeframe"})
		return
	}

	feed, err := h.Service.GetTrending(c.Request.Context(), limit, timeframe)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewTrendingFeedFromDomain(&feed))
}

// GetRecent serves the public recent-posts view
func (h *FeedHandler) GetRecent(c *gin.Context) {
	limit, offset := paginationParams(c, DefaultRecentLimit)

	feed, err := h.Service.GetRecent(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewRecentFeedFromDomain(&feed))
}

// Refresh rebuilds the authenticated user's feed unconditionally,
// the "pull to refresh" semantics
func (h *FeedHandler) Refresh(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.Service.RefreshFeed(c.Request.Context(), userID.(int64)); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// paginationParams parses limit/offset with a logged fallback to defaults,
// same policy as the rest of the handlers: a bad param degrades, it does
// not reject the request.
func paginationParams(c *gin.Context, defaultLimit int64) (limit, offset int64) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", ""), 10, 64)
	if err != nil || limit < 1 || limit > PageMaxLimit {
		if c.Query("limit") != "" {
			logrus.Error("Invalid param 'limit'")
		}
		limit = defaultLimit
	}

	offset, err = strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)
	if err != nil || offset < 0 {
		logrus.Error("Invalid param 'offset'")
		offset = 0
	}
	return limit, offset
}

// getStatusCode will get the code of the error from the usecase layer
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	logrus.Error(err)
	switch {
	case errors.Is(err, domain.ErrInternalServerError):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
