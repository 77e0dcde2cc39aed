package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nosh/internal/backend"
	"nosh/internal/core"
	"nosh/internal/llm"
	"nosh/internal/tools"
	"nosh/pkg/schema"
)

func newTestServer(t *testing.T, model llm.Model) *echo.Echo {
	t.Helper()

	restaurants, err := backend.LoadCatalog()
	require.NoError(t, err)
	svc := backend.NewService(restaurants, "Vadodara")

	registry := tools.NewRegistry()
	require.NoError(t, tools.RegisterCatalog(registry))

	sessions := core.NewSessionStore(20)
	logger := core.NewLoggerWithWriter("error", io.Discard)

	orchestrator := core.NewOrchestrator(
		model, registry, svc, sessions, logger,
		llm.BuildSystemInstruction("Vadodara"), 10,
	)

	e := echo.New()
	NewHandler(orchestrator, sessions, registry, logger).RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChatGeneratesSessionID(t *testing.T) {
	model := &llm.MockModel{Responses: []*ai.ModelResponse{
		llm.TextResponse("Hello! What are you in the mood for?"),
	}}
	e := newTestServer(t, model)

	rec := doJSON(e, http.MethodPost, "/chat", `{"message": "hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp schema.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello! What are you in the mood for?", resp.FinalText)
	assert.True(t, strings.HasPrefix(resp.SessionID, "SES-"), "got %q", resp.SessionID)
	assert.Equal(t, 0, resp.ToolsUsedCount)
	assert.GreaterOrEqual(t, resp.ElapsedTime, 0.0)
}

func TestChatReusesSessionID(t *testing.T) {
	model := &llm.MockModel{Responses: []*ai.ModelResponse{
		llm.TextResponse("first"),
		llm.TextResponse("second"),
	}}
	e := newTestServer(t, model)

	rec := doJSON(e, http.MethodPost, "/chat", `{"message": "hi", "session_id": "SES-fixed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp schema.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SES-fixed", resp.SessionID)

	rec = doJSON(e, http.MethodPost, "/chat", `{"message": "again", "session_id": "SES-fixed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Second turn should carry the first turn's history.
	last := model.Requests[len(model.Requests)-1]
	assert.Len(t, last.Messages, 4) // system + user + model + user
}

func TestChatCountsToolUse(t *testing.T) {
	model := &llm.MockModel{Responses: []*ai.ModelResponse{
		llm.ToolCallResponse("view_cart", map[string]any{}),
		llm.TextResponse("Your cart is empty."),
	}}
	e := newTestServer(t, model)

	rec := doJSON(e, http.MethodPost, "/chat", `{"message": "what's in my cart?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp schema.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.ToolsUsedCount)
	assert.Equal(t, "Your cart is empty.", resp.FinalText)
}

func TestChatEmptyMessageIsBadRequest(t *testing.T) {
	e := newTestServer(t, &llm.MockModel{})

	rec := doJSON(e, http.MethodPost, "/chat", `{"message": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid request", body["error"])
}

func TestChatMalformedBodyIsBadRequest(t *testing.T) {
	e := newTestServer(t, &llm.MockModel{})

	rec := doJSON(e, http.MethodPost, "/chat", `{"message": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatModelFailureIsBadGateway(t *testing.T) {
	model := &llm.MockModel{Err: llm.NewAPIError(429, "rate limited")}
	e := newTestServer(t, model)

	rec := doJSON(e, http.MethodPost, "/chat", `{"message": "hi"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "the assistant is unavailable right now", body["error"])
}

func TestListTools(t *testing.T) {
	e := newTestServer(t, &llm.MockModel{})

	rec := doJSON(e, http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tools []schema.ToolSpec `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Tools, 6)
	assert.Equal(t, "search_restaurants", body.Tools[0].Name)
	assert.NotEmpty(t, body.Tools[0].Description)
	assert.NotNil(t, body.Tools[0].ParameterSchema)
}

func TestSessionLifecycle(t *testing.T) {
	model := &llm.MockModel{Responses: []*ai.ModelResponse{
		llm.TextResponse("ok"),
	}}
	e := newTestServer(t, model)

	rec := doJSON(e, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Sessions []schema.SessionInfo `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Empty(t, listing.Sessions)

	rec = doJSON(e, http.MethodPost, "/chat", `{"message": "hi", "session_id": "SES-abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Sessions, 1)
	assert.Equal(t, "SES-abc", listing.Sessions[0].ID)
	assert.Equal(t, 2, listing.Sessions[0].MessageCount)

	rec = doJSON(e, http.MethodDelete, "/sessions/SES-abc", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, "/sessions", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Empty(t, listing.Sessions)
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, &llm.MockModel{})

	rec := doJSON(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, rec.Body.String())
}
