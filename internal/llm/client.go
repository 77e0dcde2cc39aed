// Package llm implements the model capability: given history, a new
// message and a tool catalog, produce either final text or a requested
// tool call. The production implementation speaks the Gemini
// generateContent API over HTTP; tests use the scripted mock.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/firebase/genkit/go/ai"
)

// Model is the narrow interface the orchestration loop consumes. Both the
// Gemini client and genkit-registered models satisfy it.
type Model interface {
	Name() string
	Generate(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error)
}

// Client is the Gemini API client.
type Client struct {
	config *Config
	http   *http.Client
}

// NewClient creates a new Gemini client.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config.SetDefaults()

	return &Client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Name returns the configured model identifier.
func (c *Client) Name() string {
	return c.config.Model
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	Tools             []geminiTool            `json:"tools,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

// geminiContent is one conversation entry: a role plus ordered parts.
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

// geminiPart carries exactly one of text, a function call, or a function
// response.
type geminiPart struct {
	Text             string                  `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResponse `json:"functionResponse,omitempty"`
}

type geminiFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type geminiFunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDeclaration `json:"functionDeclarations"`
}

type geminiFunctionDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// geminiResponse is the generateContent response body.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

// Generate makes a single generateContent call. The signature matches
// genkit's model function so the client can be registered as a provider.
func (c *Client) Generate(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
	body, err := json.Marshal(c.toWire(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.config.BaseURL, c.config.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.config.APIKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Gemini HTTP request failed",
			"error", err.Error(),
			"duration", duration,
		)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewTimeoutError()
		}
		return nil, NewNetworkError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}()

	slog.Info("Gemini HTTP request completed",
		"model", c.config.Model,
		"status_code", resp.StatusCode,
		"duration", duration,
	)

	if resp.StatusCode != http.StatusOK {
		var errBody bytes.Buffer
		if _, err := errBody.ReadFrom(resp.Body); err != nil {
			return nil, NewAPIError(resp.StatusCode, fmt.Sprintf("status %d (failed to read error body)", resp.StatusCode))
		}
		return nil, NewAPIError(resp.StatusCode, errBody.String())
	}

	var wire geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, NewParseError(err)
	}

	if wire.Error != nil {
		return nil, NewAPIError(wire.Error.Code, wire.Error.Message)
	}

	if len(wire.Candidates) == 0 {
		return nil, NewAPIError(0, "no candidates in response")
	}

	return c.fromWire(req, &wire), nil
}

// toWire converts a model request into the Gemini JSON shape. System
// messages become the systemInstruction; tool responses travel as
// functionResponse parts in a user turn.
func (c *Client) toWire(req *ai.ModelRequest) *geminiRequest {
	wire := &geminiRequest{
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxOutputTokens,
		},
	}

	for _, msg := range req.Messages {
		if msg.Role == ai.RoleSystem {
			wire.SystemInstruction = &geminiContent{Parts: textParts(msg)}
			continue
		}
		wire.Contents = append(wire.Contents, geminiContent{
			Role:  geminiRole(msg.Role),
			Parts: toWireParts(msg.Content),
		})
	}

	if len(req.Tools) > 0 {
		decls := make([]geminiFunctionDeclaration, 0, len(req.Tools))
		for _, tool := range req.Tools {
			decls = append(decls, geminiFunctionDeclaration{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			})
		}
		wire.Tools = []geminiTool{{FunctionDeclarations: decls}}
	}

	return wire
}

func geminiRole(role ai.Role) string {
	if role == ai.RoleModel {
		return "model"
	}
	// User and tool turns both travel as "user" on the wire.
	return "user"
}

func textParts(msg *ai.Message) []geminiPart {
	var parts []geminiPart
	for _, part := range msg.Content {
		if part.IsText() {
			parts = append(parts, geminiPart{Text: part.Text})
		}
	}
	return parts
}

func toWireParts(parts []*ai.Part) []geminiPart {
	wire := make([]geminiPart, 0, len(parts))
	for _, part := range parts {
		switch {
		case part.IsToolRequest():
			wire = append(wire, geminiPart{FunctionCall: &geminiFunctionCall{
				Name: part.ToolRequest.Name,
				Args: asObject(part.ToolRequest.Input),
			}})
		case part.IsToolResponse():
			wire = append(wire, geminiPart{FunctionResponse: &geminiFunctionResponse{
				Name:     part.ToolResponse.Name,
				Response: asObject(part.ToolResponse.Output),
			}})
		case part.IsText():
			wire = append(wire, geminiPart{Text: part.Text})
		}
	}
	return wire
}

// asObject coerces a part payload into the JSON object Gemini requires.
func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{"result": v}
}

// fromWire converts a Gemini candidate back into a model response with
// text and tool-request parts.
func (c *Client) fromWire(req *ai.ModelRequest, wire *geminiResponse) *ai.ModelResponse {
	candidate := wire.Candidates[0]

	parts := make([]*ai.Part, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		if part.FunctionCall != nil {
			parts = append(parts, ai.NewToolRequestPart(&ai.ToolRequest{
				Name:  part.FunctionCall.Name,
				Input: part.FunctionCall.Args,
			}))
			continue
		}
		if part.Text != "" {
			parts = append(parts, ai.NewTextPart(part.Text))
		}
	}

	return &ai.ModelResponse{
		Request:      req,
		FinishReason: ai.FinishReason("stop"),
		Message: &ai.Message{
			Role:    ai.RoleModel,
			Content: parts,
		},
	}
}
