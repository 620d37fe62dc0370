package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"inputvote/backend/internal/auth"
	"inputvote/backend/internal/hub"
	"inputvote/backend/internal/models"
	"inputvote/backend/internal/vote"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const streamBuffer = 8

// region --- DTOs ---

// VoteInput is the body of POST /vote. Both fields accept a JSON string or number.
type VoteInput struct {
	AppID json.RawMessage `json:"app_id" swaggertype:"integer" example:"570"`
	Type  json.RawMessage `json:"type" swaggertype:"string" example:"kb"`
}

// TallyResponse is the vote summary of one game.
type TallyResponse struct {
	Result          map[string]int64 `json:"result"`
	Total           int64            `json:"total" example:"3"`
	UserVote        interface{}      `json:"user_vote" swaggertype:"string" example:"kb"`
	IsAuthenticated bool             `json:"is_authenticated" example:"true"`
}

// TallyEvent is pushed to stream subscribers after every vote.
type TallyEvent struct {
	AppID  int64            `json:"app_id" example:"570"`
	Result map[string]int64 `json:"result"`
	Total  int64            `json:"total" example:"3"`
}

func resultOf(t vote.Tally) map[string]int64 {
	result := make(map[string]int64, len(t.Counts))
	for choice, n := range t.Counts {
		result[choice.String()] = n
	}
	return result
}

// newTallyResponse renders user_vote as the choice label, or false when there is none.
func newTallyResponse(s vote.Summary, authenticated bool) TallyResponse {
	var userVote interface{} = false
	if s.UserChoice.Valid() {
		userVote = s.UserChoice.String()
	}
	return TallyResponse{
		Result:          resultOf(s.Tally),
		Total:           s.Total,
		UserVote:        userVote,
		IsAuthenticated: authenticated,
	}
}

func newTallyEvent(gameID int64, t vote.Tally) hub.Event {
	return hub.Event{
		Type:    "tally",
		Payload: TallyEvent{AppID: gameID, Result: resultOf(t), Total: t.Total},
	}
}

// endregion

// region --- Input parsing ---

var errBadAppID = errors.New("app_id must be a positive integer")

func parseAppID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadAppID
	}
	return id, nil
}

// rawScalar returns a JSON string's contents or a number's literal text.
func rawScalar(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func (in VoteInput) parse() (int64, models.Choice, error) {
	s, ok := rawScalar(in.AppID)
	if !ok {
		return 0, models.ChoiceNone, errBadAppID
	}
	gameID, err := parseAppID(s)
	if err != nil {
		return 0, models.ChoiceNone, err
	}

	label, ok := rawScalar(in.Type)
	if !ok {
		return gameID, models.ChoiceNone, vote.ErrInvalidChoice
	}
	choice, ok := models.ParseChoice(label)
	if !ok {
		return gameID, models.ChoiceNone, vote.ErrInvalidChoice
	}
	return gameID, choice, nil
}

// endregion

// region --- Vote Handlers ---

// SubmitVote godoc
// @Summary      Vote for a game
// @Description  Votes kb or controller. Voting the current choice again withdraws the vote.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        input body VoteInput true "Vote"
// @Success      200  {object}  TallyResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /vote [post]
func (h *Handler) SubmitVote(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var input VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	gameID, choice, err := input.parse()
	if errors.Is(err, errBadAppID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	summary, err := h.votes.SubmitVote(c.Request.Context(), gameID, userID, choice)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.hub.Broadcast(gameID, newTallyEvent(gameID, summary.Tally)); err != nil {
		h.log.Warn("tally broadcast failed", zap.Int64("game_id", gameID), zap.Error(err))
	}

	c.JSON(http.StatusOK, newTallyResponse(summary, true))
}

// GetVotes godoc
// @Summary      Votes of a game
// @Description  Returns the tally and, for a logged in user, their current vote.
// @Tags         votes
// @Produce      json
// @Param        app_id path int true "Steam app id"
// @Success      200  {object}  TallyResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /votes/{app_id} [get]
func (h *Handler) GetVotes(c *gin.Context) {
	gameID, err := parseAppID(c.Param("app_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var viewer *uint
	if id, ok := auth.UserID(c); ok {
		viewer = &id
	}

	summary, err := h.votes.GetTally(c.Request.Context(), gameID, viewer)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTallyResponse(summary, viewer != nil))
}

// StreamVotes godoc
// @Summary      Live tally stream
// @Description  Server-sent events: the current tally, then one "tally" event after every vote on the game.
// @Tags         votes
// @Produce      text/event-stream
// @Param        app_id path int true "Steam app id"
// @Success      200  {object}  TallyEvent
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /votes/{app_id}/stream [get]
func (h *Handler) StreamVotes(c *gin.Context) {
	gameID, err := parseAppID(c.Param("app_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Subscribe before the snapshot so no vote falls in between.
	client := h.hub.Subscribe(gameID, streamBuffer)
	defer h.hub.Unsubscribe(gameID, client)

	summary, err := h.votes.GetTally(c.Request.Context(), gameID, nil)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	initial := newTallyEvent(gameID, summary.Tally)
	c.SSEvent(initial.Type, initial.Payload)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			var event struct {
				Type    string          `json:"type"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := json.Unmarshal(msg, &event); err != nil {
				return true
			}
			c.SSEvent(event.Type, event.Payload)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// endregion
