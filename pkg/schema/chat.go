package schema

// ChatRequest is the transport-level request for one chat turn.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is returned for every successful turn, including
// loop-cap fallbacks. Field names are part of the wire contract.
type ChatResponse struct {
	FinalText      string  `json:"finalText"`
	SessionID      string  `json:"sessionId"`
	ToolsUsedCount int     `json:"toolsUsedCount"`
	ElapsedTime    float64 `json:"elapsedTime"`
}

// ToolSpec is the introspection shape for one registered tool. It never
// carries the handler.
type ToolSpec struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	ParameterSchema map[string]any `json:"parameterSchema"`
}

// SessionInfo is the observability shape for one live session.
type SessionInfo struct {
	ID           string `json:"session_id"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at"`
}
