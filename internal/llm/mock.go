package llm

import (
	"context"

	"github.com/firebase/genkit/go/ai"
)

// MockModel is a scripted model for testing. Responses are returned in
// order; the last one repeats once the script is exhausted, which makes it
// easy to simulate a model that keeps requesting tool calls forever.
type MockModel struct {
	Responses []*ai.ModelResponse
	Err       error // Error to return (if any)

	Calls    int
	Requests []*ai.ModelRequest
}

// Name identifies the mock in logs.
func (m *MockModel) Name() string {
	return "mock/scripted"
}

// Generate replays the script.
func (m *MockModel) Generate(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
	m.Calls++
	m.Requests = append(m.Requests, req)

	if m.Err != nil {
		return nil, m.Err
	}

	idx := m.Calls - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// TextResponse builds a final-text model response.
func TextResponse(text string) *ai.ModelResponse {
	return &ai.ModelResponse{
		FinishReason: ai.FinishReason("stop"),
		Message: &ai.Message{
			Role:    ai.RoleModel,
			Content: []*ai.Part{ai.NewTextPart(text)},
		},
	}
}

// ToolCallResponse builds a model response requesting one tool call.
func ToolCallResponse(name string, args map[string]any) *ai.ModelResponse {
	return &ai.ModelResponse{
		FinishReason: ai.FinishReason("stop"),
		Message: &ai.Message{
			Role: ai.RoleModel,
			Content: []*ai.Part{
				ai.NewToolRequestPart(&ai.ToolRequest{Name: name, Input: args}),
			},
		},
	}
}
