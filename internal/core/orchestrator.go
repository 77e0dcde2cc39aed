package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"

	"nosh/internal/backend"
	"nosh/internal/llm"
	"nosh/internal/tools"
)

// capFallbackMessage is returned when a turn exhausts its tool budget.
// Hitting the cap is a degraded success, not an error.
const capFallbackMessage = "I wasn't able to finish that request in one go. Could you break it into smaller steps?"

// emptyReplyFallback keeps the user-visible contract at "always get a
// reply" when the model's terminal response carries no text.
const emptyReplyFallback = "Sorry, I couldn't come up with a response. Could you rephrase that?"

// ChatResult is the outcome of one completed chat turn.
type ChatResult struct {
	FinalText      string
	SessionID      string
	ToolsUsedCount int
	Elapsed        time.Duration
}

// Orchestrator drives the model against the tool catalog: it sends the
// user message plus history, and while the model answers with a tool
// request rather than final text, executes the tool and feeds the result
// back, bounded by the iteration cap.
type Orchestrator struct {
	model             llm.Model
	registry          *tools.Registry
	backend           *backend.Service
	sessions          *SessionStore
	logger            Logger
	systemInstruction string
	maxToolIterations int
}

// NewOrchestrator wires the loop's collaborators.
func NewOrchestrator(
	model llm.Model,
	registry *tools.Registry,
	backendSvc *backend.Service,
	sessions *SessionStore,
	logger Logger,
	systemInstruction string,
	maxToolIterations int,
) *Orchestrator {
	return &Orchestrator{
		model:             model,
		registry:          registry,
		backend:           backendSvc,
		sessions:          sessions,
		logger:            logger,
		systemInstruction: systemInstruction,
		maxToolIterations: maxToolIterations,
	}
}

// Chat processes one user turn. On success the turn is appended to the
// session's history; on a fatal error (validation, model transport,
// unknown tool) the history is left untouched.
//
// The caller must serialize concurrent turns for the same session id;
// turns for different sessions may run concurrently.
func (o *Orchestrator) Chat(ctx context.Context, sessionID, userMessage string) (*ChatResult, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, &ValidationError{Field: "message", Message: "must not be empty"}
	}

	start := time.Now()
	session := o.sessions.GetOrCreate(sessionID)

	messages := o.buildMessages(session, userMessage)
	toolsUsed := 0

	o.logger.Info("chat turn started",
		"session_id", sessionID,
		"history_messages", len(session.History),
		"model", o.model.Name(),
	)

	var finalText string
	for {
		resp, err := o.model.Generate(ctx, &ai.ModelRequest{
			Messages: messages,
			Tools:    o.registry.Declarations(),
		}, nil)
		if err != nil {
			o.logger.Error("model call failed",
				"session_id", sessionID,
				"tools_used", toolsUsed,
				"error", err.Error(),
			)
			return nil, err
		}

		toolReq := firstToolRequest(resp)
		if toolReq == nil {
			finalText = responseText(resp)
			break
		}

		if toolsUsed >= o.maxToolIterations {
			o.logger.Warn("tool iteration cap reached",
				"session_id", sessionID,
				"cap", o.maxToolIterations,
			)
			finalText = capFallbackMessage
			break
		}

		payload, fatal := o.executeTool(ctx, sessionID, toolReq)
		if fatal != nil {
			return nil, fatal
		}
		toolsUsed++

		// The model's tool-request turn and our result are appended to
		// the in-flight exchange before the next model call.
		messages = append(messages,
			resp.Message,
			&ai.Message{
				Role: ai.RoleTool,
				Content: []*ai.Part{
					ai.NewToolResponsePart(&ai.ToolResponse{
						Name:   toolReq.Name,
						Output: payload,
					}),
				},
			},
		)
	}

	if strings.TrimSpace(finalText) == "" {
		finalText = emptyReplyFallback
	}

	o.sessions.AppendTurn(sessionID, userMessage, finalText)

	elapsed := time.Since(start)
	o.logger.Info("chat turn completed",
		"session_id", sessionID,
		"tools_used", toolsUsed,
		"elapsed", elapsed,
	)

	return &ChatResult{
		FinalText:      finalText,
		SessionID:      sessionID,
		ToolsUsedCount: toolsUsed,
		Elapsed:        elapsed,
	}, nil
}

// buildMessages assembles the model request: system instruction, stored
// history, then the new user message.
func (o *Orchestrator) buildMessages(session *Session, userMessage string) []*ai.Message {
	messages := make([]*ai.Message, 0, len(session.History)+2)
	messages = append(messages, &ai.Message{
		Role:    ai.RoleSystem,
		Content: []*ai.Part{ai.NewTextPart(o.systemInstruction)},
	})

	for _, msg := range session.History {
		role := ai.RoleUser
		if msg.Role == "model" {
			role = ai.RoleModel
		}
		messages = append(messages, &ai.Message{
			Role:    role,
			Content: []*ai.Part{ai.NewTextPart(msg.Content)},
		})
	}

	return append(messages, &ai.Message{
		Role:    ai.RoleUser,
		Content: []*ai.Part{ai.NewTextPart(userMessage)},
	})
}

// executeTool runs one requested tool call. Domain errors become the
// result payload fed back to the model; an unknown tool is a programming
// error and aborts the turn.
func (o *Orchestrator) executeTool(ctx context.Context, sessionID string, toolReq *ai.ToolRequest) (map[string]any, error) {
	args, _ := toolReq.Input.(map[string]any)

	output, err := o.registry.Execute(ctx, toolReq.Name, args, &tools.Context{
		SessionID: sessionID,
		Backend:   o.backend,
	})
	if err != nil {
		var unknown *tools.UnknownToolError
		if errors.As(err, &unknown) {
			return nil, err
		}
		o.logger.Warn("tool returned error",
			"session_id", sessionID,
			"tool", toolReq.Name,
			"error", err.Error(),
		)
		return map[string]any{"error": err.Error()}, nil
	}

	if payload, ok := output.(map[string]any); ok {
		return payload, nil
	}
	return map[string]any{"result": output}, nil
}

// firstToolRequest returns the first requested tool call in the response,
// or nil when the model produced final text. Extra calls in the same
// response are dropped.
func firstToolRequest(resp *ai.ModelResponse) *ai.ToolRequest {
	if resp.Message == nil {
		return nil
	}
	for _, part := range resp.Message.Content {
		if part.IsToolRequest() {
			return part.ToolRequest
		}
	}
	return nil
}

// responseText concatenates the response's text parts.
func responseText(resp *ai.ModelResponse) string {
	if resp.Message == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Message.Content {
		if part.IsText() {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
