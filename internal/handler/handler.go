package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"inputvote/backend/internal/hub"
	"inputvote/backend/internal/models"
	"inputvote/backend/internal/steam"
	"inputvote/backend/internal/vote"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoteService is the vote engine as the HTTP layer sees it.
type VoteService interface {
	SubmitVote(ctx context.Context, gameID int64, userID uint, choice models.Choice) (vote.Summary, error)
	GetTally(ctx context.Context, gameID int64, userID *uint) (vote.Summary, error)
}

// UserDirectory resolves Steam identities to local users.
type UserDirectory interface {
	GetOrCreate(ctx context.Context, steamID string) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	UpdateNickname(ctx context.Context, id uint, nickname string) error
}

// SteamClient is the part of Steam the login flow needs.
type SteamClient interface {
	LoginURL(publicURL string) string
	Verify(ctx context.Context, params url.Values) (bool, error)
	PlayerSummary(ctx context.Context, steamID string) (*steam.Player, error)
}

// CatalogRefresher reloads the game catalog.
type CatalogRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Options carries the settings handlers need from the config.
type Options struct {
	PublicURL    string
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool
	// FetchProfiles enables the persona name lookup on login; it needs a Steam API key.
	FetchProfiles bool
}

// Handler serves the HTTP API.
type Handler struct {
	votes   VoteService
	users   UserDirectory
	steam   SteamClient
	catalog CatalogRefresher
	hub     *hub.Hub
	log     *zap.Logger
	opts    Options
}

func New(votes VoteService, users UserDirectory, sc SteamClient, catalog CatalogRefresher, events *hub.Hub, log *zap.Logger, opts Options) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if events == nil {
		events = hub.New()
	}
	return &Handler{
		votes:   votes,
		users:   users,
		steam:   sc,
		catalog: catalog,
		hub:     events,
		log:     log,
		opts:    opts,
	}
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, vote.ErrGameNotFound):
		return http.StatusNotFound, "This game is not indexed or available to vote"
	case errors.Is(err, vote.ErrInvalidChoice):
		return http.StatusBadRequest, vote.ErrInvalidChoice.Error()
	case errors.Is(err, vote.ErrUnauthenticated):
		return http.StatusUnauthorized, vote.ErrUnauthenticated.Error()
	case errors.Is(err, vote.ErrUnauthorized):
		return http.StatusForbidden, vote.ErrUnauthorized.Error()
	case errors.Is(err, vote.ErrStoreConflict):
		return http.StatusConflict, vote.ErrStoreConflict.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// respondError maps domain errors to a status and logs the unexpected ones.
func (h *Handler) respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, ErrorResponse{Error: msg})
}
