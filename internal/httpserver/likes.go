package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type likeResponse struct {
	ISBN  string `json:"isbn"`
	Liked bool   `json:"liked"`
}

func (h *handlers) getLike(c *gin.Context) {
	isbn := c.Param("isbn")
	c.JSON(http.StatusOK, likeResponse{ISBN: isbn, Liked: h.deps.Likes.IsLiked(c.Request.Context(), deviceFrom(c), isbn)})
}

func (h *handlers) toggleLike(c *gin.Context) {
	isbn := c.Param("isbn")
	liked, err := h.deps.Likes.Toggle(c.Request.Context(), deviceFrom(c), isbn)
	if err != nil {
		h.logger.Error("toggle like", zap.String("isbn", isbn), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "could not save like")
		return
	}
	c.JSON(http.StatusOK, likeResponse{ISBN: isbn, Liked: liked})
}
