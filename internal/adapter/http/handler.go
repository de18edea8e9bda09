package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"warfront/internal/app/action"
	"warfront/internal/app/lobby"
	"warfront/internal/app/ports"
	"warfront/internal/app/status"
	"warfront/internal/app/timeline"
	"warfront/internal/app/timeout"
	"warfront/internal/domain/game"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// userIDHeader names the caller. Authentication happens in front of this
// service.
const userIDHeader = "X-User-ID"

type timeoutRunner interface {
	RunOnce(ctx context.Context) (timeout.Summary, error)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	LobbyUC    lobby.UseCase
	ActionUC   action.UseCase
	StatusUC   status.UseCase
	TimelineUC timeline.UseCase
	Timeouts   timeoutRunner
	KPI        kpiSnapshotProvider

	// AllowedOrigins feeds the CORS policy; empty admits every origin.
	AllowedOrigins []string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(newCORSPolicy(h.AllowedOrigins).middleware())

	games := s.Group("/api/games")
	games.POST("", h.create)
	games.GET("/:id", h.show)
	games.POST("/:id/join", h.join)
	games.POST("/:id/start", h.start)
	games.POST("/:id/actions", h.submit)
	games.POST("/:id/resign", h.resign)
	games.GET("/:id/timeline", h.timeline)

	s.POST("/ops/timeouts/run", h.runTimeouts)
	s.GET("/ops/kpi", h.kpi)
}

type createRequest struct {
	MapID           string                `json:"map_id"`
	TimingMode      game.TimingMode       `json:"timing_mode"`
	ExcludeWeekends bool                  `json:"exclude_weekends"`
	TeamsEnabled    bool                  `json:"teams_enabled"`
	Rules           game.RulesetOverrides `json:"rules"`
	PreferredColor  string                `json:"preferred_color,omitempty"`
	TeamID          string                `json:"team_id,omitempty"`
}

type joinRequest struct {
	PreferredColor string `json:"preferred_color,omitempty"`
	TeamID         string `json:"team_id,omitempty"`
}

type actionRequest struct {
	ExpectedVersion *int64       `json:"expected_version"`
	Action          *game.Action `json:"action"`
}

type resignRequest struct {
	ExpectedVersion *int64 `json:"expected_version"`
}

func (h Handler) create(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body createRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.LobbyUC.Create(c, lobby.CreateRequest{
		UserID:          userID,
		MapID:           body.MapID,
		TimingMode:      body.TimingMode,
		ExcludeWeekends: body.ExcludeWeekends,
		TeamsEnabled:    body.TeamsEnabled,
		Rules:           body.Rules,
		PreferredColor:  body.PreferredColor,
		TeamID:          body.TeamID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, status.View(resp.Game, userID))
}

func (h Handler) join(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body joinRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.LobbyUC.Join(c, lobby.JoinRequest{
		GameID:         ctx.Param("id"),
		UserID:         userID,
		PreferredColor: body.PreferredColor,
		TeamID:         body.TeamID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, status.View(resp.Game, userID))
}

func (h Handler) start(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.LobbyUC.Start(c, lobby.StartRequest{GameID: ctx.Param("id"), UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, status.View(resp.Game, userID))
}

func (h Handler) show(c context.Context, ctx *app.RequestContext) {
	userID := strings.TrimSpace(string(ctx.GetHeader(userIDHeader)))
	resp, err := h.StatusUC.Execute(c, status.Request{GameID: ctx.Param("id"), UserID: userID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	setStateVersion(ctx, resp.State.StateVersion)
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) submit(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if body.ExpectedVersion == nil || body.Action == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "expected_version and action are required")
		return
	}
	resp, err := h.ActionUC.Submit(c, action.Request{
		GameID:          ctx.Param("id"),
		UserID:          userID,
		ExpectedVersion: *body.ExpectedVersion,
		Action:          *body.Action,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	setStateVersion(ctx, resp.NewVersion)
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) resign(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body resignRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if body.ExpectedVersion == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "expected_version is required")
		return
	}
	resp, err := h.ActionUC.Resign(c, action.ResignRequest{
		GameID:          ctx.Param("id"),
		UserID:          userID,
		ExpectedVersion: *body.ExpectedVersion,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	setStateVersion(ctx, resp.NewVersion)
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) timeline(c context.Context, ctx *app.RequestContext) {
	resp, err := h.TimelineUC.Execute(c, timeline.Request{GameID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) runTimeouts(c context.Context, ctx *app.RequestContext) {
	if h.Timeouts == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "timeout scheduler not configured")
		return
	}
	summary, err := h.Timeouts.RunOnce(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, summary)
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func setStateVersion(ctx *app.RequestContext, v int64) {
	ctx.Response.Header.Set(stateVersionHeader, strconv.FormatInt(v, 10))
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingUserIDHeader = errors.New("missing x-user-id header")

func requireUser(ctx *app.RequestContext) (string, error) {
	userID := strings.TrimSpace(string(ctx.GetHeader(userIDHeader)))
	if userID == "" {
		return "", ErrMissingUserIDHeader
	}
	return userID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	var rejected *action.EngineRejectedError
	switch {
	case errors.Is(err, ErrMissingUserIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_user_id", err.Error())
	case errors.As(err, &rejected):
		ctx.JSON(consts.StatusUnprocessableEntity, map[string]any{
			"error": map[string]string{
				"code":    string(action.KindEngineRejected),
				"message": err.Error(),
				"reason":  rejected.Code,
			},
		})
	case errors.Is(err, action.ErrVersionConflict),
		errors.Is(err, action.ErrTurnExpired),
		errors.Is(err, action.ErrGameNotActive):
		writeErrorBody(ctx, consts.StatusConflict, string(action.KindOf(err)), err.Error())
	case errors.Is(err, action.ErrNotAParticipant):
		writeErrorBody(ctx, consts.StatusForbidden, string(action.KindNotAParticipant), err.Error())
	case errors.Is(err, action.ErrGameNotFound),
		errors.Is(err, action.ErrMapNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, string(action.KindOf(err)), err.Error())
	case errors.Is(err, action.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, string(action.KindInvalidRequest), err.Error())
	case errors.Is(err, lobby.ErrNotOwner):
		writeErrorBody(ctx, consts.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, lobby.ErrNotInLobby):
		writeErrorBody(ctx, consts.StatusConflict, "not_in_lobby", err.Error())
	case errors.Is(err, lobby.ErrLobbyFull):
		writeErrorBody(ctx, consts.StatusConflict, "lobby_full", err.Error())
	case errors.Is(err, lobby.ErrTeamsIncomplete):
		writeErrorBody(ctx, consts.StatusConflict, "teams_incomplete", err.Error())
	case errors.Is(err, lobby.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, timeline.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, lobby.ErrGameNotFound),
		errors.Is(err, status.ErrGameNotFound),
		errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
