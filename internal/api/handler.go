// Package api provides the HTTP transport: a thin layer that passes
// (sessionId, message) into the orchestration loop and renders its result
// or error as JSON.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"nosh/internal/core"
	"nosh/internal/llm"
	"nosh/pkg/schema"
)

// Handler handles HTTP requests.
type Handler struct {
	orchestrator *core.Orchestrator
	sessions     *core.SessionStore
	tools        ToolLister
	logger       core.Logger
}

// ToolLister exposes the catalog for introspection.
type ToolLister interface {
	Specs() []schema.ToolSpec
}

// NewHandler creates a new handler.
func NewHandler(orchestrator *core.Orchestrator, sessions *core.SessionStore, tools ToolLister, logger core.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		sessions:     sessions,
		tools:        tools,
		logger:       logger,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)
	e.GET("/tools", h.ListTools)
	e.GET("/sessions", h.ListSessions)
	e.DELETE("/sessions/:session_id", h.DeleteSession)
	e.GET("/health", h.Health)
}

// Chat runs one conversation turn. A missing session id starts a new
// session; the generated id is returned so the client can continue it.
func (h *Handler) Chat(c echo.Context) error {
	var req schema.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body", err))
	}

	sessionID := req.SessionID
	if sessionID == "" {
		id, err := schema.NewSessionID()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, errorBody("failed to create session", err))
		}
		sessionID = id
	}

	result, err := h.orchestrator.Chat(c.Request().Context(), sessionID, req.Message)
	if err != nil {
		return h.renderError(c, sessionID, err)
	}

	return c.JSON(http.StatusOK, schema.ChatResponse{
		FinalText:      result.FinalText,
		SessionID:      result.SessionID,
		ToolsUsedCount: result.ToolsUsedCount,
		ElapsedTime:    result.Elapsed.Seconds(),
	})
}

// renderError maps the turn's error taxonomy onto status codes.
func (h *Handler) renderError(c echo.Context, sessionID string, err error) error {
	var validation *core.ValidationError
	if errors.As(err, &validation) {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request", err))
	}

	var llmErr *llm.LLMError
	if errors.As(err, &llmErr) {
		h.logger.Error("model capability failed",
			"session_id", sessionID,
			"type", llmErr.Type,
			"error", llmErr.Error(),
		)
		return c.JSON(http.StatusBadGateway, errorBody("the assistant is unavailable right now", err))
	}

	h.logger.Error("chat turn failed",
		"session_id", sessionID,
		"error", err.Error(),
	)
	return c.JSON(http.StatusInternalServerError, errorBody("internal error", err))
}

// ListTools returns the tool catalog without handlers.
func (h *Handler) ListTools(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"tools": h.tools.Specs(),
	})
}

// ListSessions returns metadata for all live sessions.
func (h *Handler) ListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"sessions": h.sessions.List(),
	})
}

// DeleteSession removes a session; the id can be reused afterwards.
func (h *Handler) DeleteSession(c echo.Context) error {
	h.sessions.Delete(c.Param("session_id"))
	return c.NoContent(http.StatusNoContent)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func errorBody(message string, err error) map[string]string {
	body := map[string]string{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	return body
}
