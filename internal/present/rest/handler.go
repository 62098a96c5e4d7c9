package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/gocollective/collective-server/internal/domain"
	"github.com/gocollective/collective-server/internal/present/rest/presenter"
	"github.com/gocollective/collective-server/internal/service"
	"github.com/gocollective/collective-server/internal/usecase"
)

type Handler struct {
	collective *usecase.CollectiveUsecase
	signal     *service.SignalService
}

func NewHandler(
	collective *usecase.CollectiveUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		collective: collective,
		signal:     signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.handleHealth)
	e.POST("/api/v1/collectives", h.handleCreateCollective)
	e.GET("/api/v1/collectives/:slug", h.handleGetCollective)
	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

type createCollectiveRequest struct {
	Collective                 usecase.CollectiveInput `json:"collective"`
	Host                       *domain.HostRef         `json:"host,omitempty"`
	AutomateApprovalWithGithub bool                    `json:"automateApprovalWithGithub"`
}

func (h *Handler) handleCreateCollective(c echo.Context) error {
	ctx := c.Request().Context()

	var req createCollectiveRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	if req.Collective.Name == "" || req.Collective.Slug == "" {
		return presenter.BadRequestMessage(c, "name and slug are required")
	}

	actor, _ := ctx.Value(domain.ActorCtxKey).(*domain.Actor)

	collective, err := h.collective.Create(ctx, usecase.CreateCollectiveInput{
		Collective:                 req.Collective,
		Host:                       req.Host,
		AutomateApprovalWithGithub: req.AutomateApprovalWithGithub,
		Actor:                      actor,
	})
	if err != nil {
		return presenter.DomainError(c, err)
	}

	return presenter.OK(c, collective)
}

func (h *Handler) handleGetCollective(c echo.Context) error {
	ctx := c.Request().Context()

	collective, err := h.collective.Get(ctx, c.Param("slug"))
	if err != nil {
		return presenter.DomainError(c, err)
	}

	return presenter.OK(c, collective)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	output := make(chan domain.Activity)

	go h.signal.Realtime(ctx, output)

	quit := make(chan struct{}, 1)

	go func() {
		for {
			var req map[string]any
			err := ws.ReadJSON(&req)
			if err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case activity := <-output:
			err := ws.WriteJSON(activity)
			if err != nil {
				slog.ErrorContext(
					ctx, fmt.Sprintf("Error writing activity: %v", err),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
