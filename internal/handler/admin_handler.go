package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UpdateGames godoc
// @Summary      Refresh the game catalog
// @Description  Reloads the Steam app list into the games table. Admin only.
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  map[string]interface{} "{"message": "Games updated", "count": 1234}"
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      500  {object}  ErrorResponse
// @Router       /update-games [get]
func (h *Handler) UpdateGames(c *gin.Context) {
	count, err := h.catalog.Refresh(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info("catalog refreshed on request", zap.Int("count", count))
	c.JSON(http.StatusOK, gin.H{"message": "Games updated", "count": count})
}
