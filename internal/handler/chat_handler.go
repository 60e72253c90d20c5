package handler

import (
	"net/http"
	"strconv"
	"time"

	"ecoshop/internal/middleware"
	"ecoshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

type ChatHandler struct {
	uc *usecase.ChatUsecase
}

func NewChatHandler(uc *usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

type chatSessionRequest struct {
	Title *string `json:"title"`
}

type chatMessageRequest struct {
	Content   string     `json:"content"`
	Sender    string     `json:"sender"`
	Timestamp *time.Time `json:"timestamp"`
}

type chatLogRequest struct {
	SessionID int64                `json:"session_id"`
	Messages  []chatMessageRequest `json:"messages"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (h *ChatHandler) RegisterRoutes(r Routes) {
	r.Public.POST("/chatsession", h.createSession, r.Auth...)
	r.Public.GET("/chatsessions", h.listSessions, r.Auth...)
	r.Public.GET("/chatlog", h.getLog, r.Auth...)
	r.Public.POST("/chatlog", h.saveLog, r.Auth...)
}

func (h *ChatHandler) createSession(c echo.Context) error {
	var req chatSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.CreateSession(c.Request().Context(), middleware.UserIDFrom(c), req.Title)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ChatHandler) listSessions(c echo.Context) error {
	out, err := h.uc.ListSessions(c.Request().Context(), middleware.UserIDFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatHandler) getLog(c echo.Context) error {
	raw := c.QueryParam("session_id")
	if raw == "" {
		return badRequest(c, "session_id is required")
	}
	sessionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return badRequest(c, "invalid session_id")
	}

	out, err := h.uc.GetLog(c.Request().Context(), middleware.UserIDFrom(c), sessionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatHandler) saveLog(c echo.Context) error {
	var req chatLogRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	msgs := lo.Map(req.Messages, func(m chatMessageRequest, _ int) usecase.ChatMessageInput {
		return usecase.ChatMessageInput(m)
	})
	if err := h.uc.SaveLog(c.Request().Context(), middleware.UserIDFrom(c), req.SessionID, msgs); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "success"})
}
