package handler

import (
	"net/http"

	"inputvote/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// Ping godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string "{"message": "pong"}"
// @Router       /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// RegisterRoutes mounts the API on r. admins backs the admin-only routes.
func RegisterRoutes(r gin.IRouter, h *Handler, admins auth.AdminChecker) {
	secret := h.opts.JWTSecret
	required := auth.AuthMiddleware(secret)

	r.GET("/ping", Ping)

	// Steam login
	r.GET("/auth", h.Login)
	r.GET("/authorize", h.Authorize)
	r.GET("/success", required, h.LoginSuccess)
	r.GET("/user", required, h.CurrentUser)
	r.GET("/logout", required, h.Logout)

	// Votes
	r.POST("/vote", required, h.SubmitVote)
	voteRoutes := r.Group("/votes")
	{
		voteRoutes.GET("/:app_id", auth.OptionalAuthMiddleware(secret), h.GetVotes)
		voteRoutes.GET("/:app_id/stream", h.StreamVotes)
	}

	// Admin
	r.GET("/update-games", required, auth.AdminMiddleware(admins), h.UpdateGames)
}
