package llm

import (
	"context"
)

// Roles used in the message list sent to the completion service.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Stop reasons reported by the completion service.
const (
	StopReasonToolUse = "tool_use"
	StopReasonEndTurn = "end_turn"
)

// Content block types.
const (
	BlockTypeText       = "text"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// ContentBlock is the tagged union of message content: a text block, a
// tool-use request from the model, or a tool result fed back to it.
// Type decides which fields are meaningful.
type ContentBlock struct {
	Type string `json:"type"`

	// BlockTypeText
	Text string `json:"text,omitempty"`

	// BlockTypeToolUse
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`

	// BlockTypeToolResult
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockTypeText, Text: text}
}

// ToolResultBlock builds a tool_result block answering the given tool_use id.
func ToolResultBlock(toolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{
		Type:      BlockTypeToolResult,
		ToolUseID: toolUseID,
		Content:   content,
		IsError:   isError,
	}
}

// Message is a single conversational turn.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// UserMessage wraps blocks into a user-role message.
func UserMessage(blocks ...ContentBlock) Message {
	return Message{Role: RoleUser, Content: blocks}
}

// AssistantMessage wraps blocks into an assistant-role message.
func AssistantMessage(blocks ...ContentBlock) Message {
	return Message{Role: RoleAssistant, Content: blocks}
}

// Property describes one input parameter of a tool.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// InputSchema is the JSON-schema-shaped argument contract of a tool.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// ToolDefinition is the static capability contract exposed to the
// completion service so it can request an invocation by name.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// ToolChoice selects the tool-use policy for a completion call.
type ToolChoice struct {
	Type string `json:"type"` // "auto", "any", "tool"
}

// Request carries one completion call. Tools and ToolChoice are omitted to
// force a purely textual answer.
type Request struct {
	Messages   []Message
	System     string
	Tools      []ToolDefinition
	ToolChoice *ToolChoice
}

// Response is the completion service's answer: an ordered content-block
// sequence plus the stop reason signalling tool use or a direct answer.
type Response struct {
	Content    []ContentBlock
	StopReason string
}

// FirstText returns the first text block's content, or "" if none exists.
func (r *Response) FirstText() string {
	for _, block := range r.Content {
		if block.Type == BlockTypeText {
			return block.Text
		}
	}
	return ""
}

// CompletionProvider is the contract for any completion backend capable of
// the tool-use message protocol.
type CompletionProvider interface {
	CreateMessage(ctx context.Context, req *Request) (*Response, error)
}
