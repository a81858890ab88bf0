package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkowalik/carscout/config"
	"github.com/mkowalik/carscout/internal/assist"
	"github.com/mkowalik/carscout/internal/rank"
	"github.com/mkowalik/carscout/internal/session"
	"github.com/mkowalik/carscout/internal/store"
	"github.com/mkowalik/carscout/models"
)

// AssistantHandler drives the guided chat flow and its result generation.
type AssistantHandler struct {
	Store    *store.Store
	Sessions session.Store
	Machine  *assist.Machine
	Ranking  config.RankingConfig
	Cfg      config.AssistantConfig
}

type turnRequest struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"` // "start" or "chat"
	Message   string `json:"message,omitempty"`
	Option    string `json:"option,omitempty"`
}

type turnResponse struct {
	SessionID  string                 `json:"session_id"`
	Message    string                 `json:"message"`
	Options    []assist.Option        `json:"options,omitempty"`
	Step       assist.Step            `json:"step"`
	ShowSearch bool                   `json:"show_search,omitempty"`
	Results    []models.ScoredListing `json:"results,omitempty"`
	Summary    string                 `json:"summary,omitempty"`
}

func (h *AssistantHandler) Register(e *echo.Echo) {
	e.GET("/assistant", h.page)
	e.POST("/api/assistant", h.turn)
}

func (h *AssistantHandler) page(c echo.Context) error {
	return c.Render(http.StatusOK, "assistant.html", nil)
}

func (h *AssistantHandler) turn(c echo.Context) error {
	ctx := c.Request().Context()
	assistantTurnsTotal.Inc()

	var req turnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Action == "start" || req.SessionID == "" {
		id := uuid.NewString()
		st, reply := h.Machine.Start()
		if err := h.Sessions.SaveSession(ctx, id, st, h.Cfg.SessionTTL); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, replyResponse(id, reply))
	}

	st, found, err := h.Sessions.GetSession(ctx, req.SessionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !found {
		// Unknown or expired session: reinitialize transparently.
		st, _ = h.Machine.Start()
	}

	input := req.Option
	if input == "" {
		input = req.Message
	}
	st, reply, doSearch := h.Machine.Advance(st, input)
	if err := h.Sessions.SaveSession(ctx, req.SessionID, st, h.Cfg.SessionTTL); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := replyResponse(req.SessionID, reply)
	if doSearch {
		assistantSearchesTotal.Inc()
		candidates, err := h.Store.Search(ctx, assist.BuildFilter(st.Context, models.DefaultSearchLimit))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		candidates = rank.Dedup(rank.DedupPolicy(h.Ranking.DedupPolicy), candidates)
		scorer := rank.ContextScorer{Ctx: st.Context, CurrentYear: h.Ranking.CurrentYear}
		ranked := rank.Truncate(rank.Rank(candidates, scorer), h.Cfg.ResultLimit)

		resp.Message = "Here are the cars that best match your preferences."
		resp.Results = ranked
		resp.Summary = assist.Summary(st)
	}
	return c.JSON(http.StatusOK, resp)
}

func replyResponse(id string, reply assist.Reply) turnResponse {
	return turnResponse{
		SessionID:  id,
		Message:    reply.Message,
		Options:    reply.Options,
		Step:       reply.Step,
		ShowSearch: reply.ShowSearch,
	}
}
