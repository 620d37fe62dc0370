package handler

import (
	"net/http"

	"inputvote/backend/internal/auth"
	"inputvote/backend/internal/steam"
	"inputvote/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// region --- DTOs ---

// UserResponse is returned by /user.
type UserResponse struct {
	IsAuthenticated bool   `json:"is_authenticated" example:"true"`
	Name            string `json:"name,omitempty" example:"gaben"`
}

// endregion

// region --- Auth Handlers ---

// Login godoc
// @Summary      Log in with Steam
// @Description  Redirects to the Steam OpenID login page.
// @Tags         auth
// @Success      302
// @Router       /auth [get]
func (h *Handler) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, h.steam.LoginURL(h.opts.PublicURL))
}

// Authorize godoc
// @Summary      Steam OpenID callback
// @Description  Verifies the Steam response, creates the user on first login and sets the session cookie.
// @Tags         auth
// @Success      302
// @Failure      401  {object}  ErrorResponse "Verification failed"
// @Failure      502  {object}  ErrorResponse "Steam unreachable"
// @Router       /authorize [get]
func (h *Handler) Authorize(c *gin.Context) {
	ctx := c.Request.Context()
	params := c.Request.URL.Query()

	valid, err := h.steam.Verify(ctx, params)
	if err != nil {
		h.log.Warn("steam verification failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach Steam"})
		return
	}
	if !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Steam login could not be verified"})
		return
	}

	steamID, err := steam.SteamIDFromClaimedID(params.Get("openid.identity"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Steam login could not be verified"})
		return
	}

	user, err := h.users.GetOrCreate(ctx, steamID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.opts.FetchProfiles {
		player, err := h.steam.PlayerSummary(ctx, steamID)
		switch {
		case err != nil:
			h.log.Warn("player summary failed, keeping nickname", zap.String("steam_id", steamID), zap.Error(err))
		case player.PersonaName != user.Nickname:
			if err := h.users.UpdateNickname(ctx, user.ID, player.PersonaName); err != nil {
				h.respondError(c, err)
				return
			}
		}
	}

	token, err := jwt.GenerateToken(user.ID, h.opts.JWTSecret, h.opts.SessionTTL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	auth.SetSession(c, token, h.opts.SessionTTL, h.opts.CookieSecure)
	h.log.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("steam_id", steamID))
	c.Redirect(http.StatusFound, "/success")
}

// LoginSuccess godoc
// @Summary      Login confirmation
// @Tags         auth
// @Produce      plain
// @Success      200  {string}  string
// @Failure      401  {object}  ErrorResponse
// @Router       /success [get]
func (h *Handler) LoginSuccess(c *gin.Context) {
	userID, _ := auth.UserID(c)
	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.String(http.StatusOK, "You are logged in as %s. Refresh the Steam page to start voting!", user.Nickname)
}

// CurrentUser godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /user [get]
func (h *Handler) CurrentUser(c *gin.Context) {
	userID, _ := auth.UserID(c)
	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{IsAuthenticated: true, Name: user.Nickname})
}

// Logout godoc
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]bool "{"success": true}"
// @Failure      401  {object}  ErrorResponse
// @Router       /logout [get]
func (h *Handler) Logout(c *gin.Context) {
	auth.ClearSession(c, h.opts.CookieSecure)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// endregion
