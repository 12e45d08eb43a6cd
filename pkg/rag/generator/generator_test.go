package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ai-coursechat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider replays canned responses and records every request.
type scriptedProvider struct {
	responses []*llm.Response
	err       error
	requests  []*llm.Request
}

func (p *scriptedProvider) CreateMessage(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.requests) > len(p.responses) {
		return nil, fmt.Errorf("unexpected call %d", len(p.requests))
	}
	return p.responses[len(p.requests)-1], nil
}

// recordingExecutor records tool invocations; names in failOn return errors.
type recordingExecutor struct {
	outputs map[string]string
	failOn  map[string]error
	calls   []string
}

func (e *recordingExecutor) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	e.calls = append(e.calls, name)
	if err, ok := e.failOn[name]; ok {
		return "", err
	}
	return e.outputs[name], nil
}

func textResponse(text string) *llm.Response {
	return &llm.Response{
		Content:    []llm.ContentBlock{llm.TextBlock(text)},
		StopReason: llm.StopReasonEndTurn,
	}
}

func toolUseResponse(blocks ...llm.ContentBlock) *llm.Response {
	return &llm.Response{Content: blocks, StopReason: llm.StopReasonToolUse}
}

func toolUseBlock(id, name string, input map[string]any) llm.ContentBlock {
	return llm.ContentBlock{Type: llm.BlockTypeToolUse, ID: id, Name: name, Input: input}
}

func someTools() []llm.ToolDefinition {
	return []llm.ToolDefinition{{Name: "search_course_content"}}
}

func TestGenerateDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{textResponse("Paris")}}
	gen := NewGenerator(provider, nil)

	answer, err := gen.Generate(context.Background(), "capital of France?", "", someTools(), &recordingExecutor{})
	require.NoError(t, err)

	assert.Equal(t, "Paris", answer)
	require.Len(t, provider.requests, 1)
	assert.NotEmpty(t, provider.requests[0].Tools)
	require.NotNil(t, provider.requests[0].ToolChoice)
	assert.Equal(t, "auto", provider.requests[0].ToolChoice.Type)
}

func TestGenerateWithoutToolsOmitsToolFields(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{textResponse("answer")}}
	gen := NewGenerator(provider, nil)

	_, err := gen.Generate(context.Background(), "q", "", nil, nil)
	require.NoError(t, err)

	require.Len(t, provider.requests, 1)
	assert.Empty(t, provider.requests[0].Tools)
	assert.Nil(t, provider.requests[0].ToolChoice)
}

func TestGenerateToolsWithoutExecutorNotOffered(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{textResponse("answer")}}
	gen := NewGenerator(provider, nil)

	_, err := gen.Generate(context.Background(), "q", "", someTools(), nil)
	require.NoError(t, err)

	assert.Empty(t, provider.requests[0].Tools)
}

func TestGenerateAppendsHistoryToSystem(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{textResponse("answer")}}
	gen := NewGenerator(provider, nil)

	_, err := gen.Generate(context.Background(), "q", "User: hi\nAssistant: hello", nil, nil)
	require.NoError(t, err)

	system := provider.requests[0].System
	assert.True(t, strings.HasSuffix(system, "\n\nPrevious conversation:\nUser: hi\nAssistant: hello"))
}

func TestGenerateNoHistoryLeavesSystemBare(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{textResponse("answer")}}
	gen := NewGenerator(provider, nil)

	_, err := gen.Generate(context.Background(), "q", "", nil, nil)
	require.NoError(t, err)

	assert.NotContains(t, provider.requests[0].System, "Previous conversation:")
}

func TestGenerateTransportErrorPropagates(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("connection reset")}
	gen := NewGenerator(provider, nil)

	_, err := gen.Generate(context.Background(), "q", "", nil, nil)
	assert.EqualError(t, err, "connection reset")
}

func TestGenerateNoTextBlockReturnsEmpty(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		{Content: nil, StopReason: llm.StopReasonEndTurn},
	}}
	gen := NewGenerator(provider, nil)

	answer, err := gen.Generate(context.Background(), "q", "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "", answer)
}

func TestGenerateSingleToolRound(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		toolUseResponse(toolUseBlock("tu_1", "search_course_content", map[string]any{"query": "mcp"})),
		textResponse("MCP is a protocol."),
	}}
	executor := &recordingExecutor{outputs: map[string]string{"search_course_content": "[Course]\ndoc"}}
	gen := NewGenerator(provider, nil)

	answer, err := gen.Generate(context.Background(), "what is mcp", "", someTools(), executor)
	require.NoError(t, err)

	assert.Equal(t, "MCP is a protocol.", answer)
	assert.Equal(t, []string{"search_course_content"}, executor.calls)

	// Second call: user query, assistant tool_use, user tool_result; tools
	// still offered because budget remains.
	require.Len(t, provider.requests, 2)
	second := provider.requests[1]
	require.Len(t, second.Messages, 3)
	assert.Equal(t, llm.RoleAssistant, second.Messages[1].Role)
	assert.Equal(t, llm.RoleUser, second.Messages[2].Role)
	require.Len(t, second.Messages[2].Content, 1)
	assert.Equal(t, llm.BlockTypeToolResult, second.Messages[2].Content[0].Type)
	assert.Equal(t, "tu_1", second.Messages[2].Content[0].ToolUseID)
	assert.Equal(t, "[Course]\ndoc", second.Messages[2].Content[0].Content)
	assert.NotEmpty(t, second.Tools)
}

func TestGenerateTwoRoundsThenForcedFinalization(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		toolUseResponse(toolUseBlock("tu_1", "search_course_content", nil)),
		toolUseResponse(toolUseBlock("tu_2", "search_course_content", nil)),
		textResponse("combined answer"),
	}}
	executor := &recordingExecutor{outputs: map[string]string{"search_course_content": "result"}}
	gen := NewGenerator(provider, nil)

	answer, err := gen.Generate(context.Background(), "compare X and Y", "", someTools(), executor)
	require.NoError(t, err)

	assert.Equal(t, "combined answer", answer)
	// Exactly two executions: the budget is spent after round two and the
	// final call carries no tools, so no third request can be made.
	assert.Len(t, executor.calls, 2)
	require.Len(t, provider.requests, 3)
	final := provider.requests[2]
	assert.Empty(t, final.Tools)
	assert.Nil(t, final.ToolChoice)
}

func TestGenerateBudgetSpentToolRequestsIgnored(t *testing.T) {
	// Even if the model keeps asking for tools after the last round, the
	// finalization response text is returned as-is.
	provider := &scriptedProvider{responses: []*llm.Response{
		toolUseResponse(toolUseBlock("tu_1", "search_course_content", nil)),
		toolUseResponse(toolUseBlock("tu_2", "search_course_content", nil)),
		{
			Content: []llm.ContentBlock{
				llm.TextBlock("partial answer"),
				toolUseBlock("tu_3", "search_course_content", nil),
			},
			StopReason: llm.StopReasonEndTurn,
		},
	}}
	executor := &recordingExecutor{outputs: map[string]string{"search_course_content": "result"}}
	gen := NewGenerator(provider, nil)

	answer, err := gen.Generate(context.Background(), "q", "", someTools(), executor)
	require.NoError(t, err)

	assert.Equal(t, "partial answer", answer)
	assert.Len(t, executor.calls, 2)
}

func TestGenerateToolFailureFinalizesWithoutTools(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		toolUseResponse(
			toolUseBlock("tu_1", "search_course_content", nil),
			toolUseBlock("tu_2", "search_course_content", nil),
		),
		textResponse("sorry, something went wrong"),
	}}
	executor := &recordingExecutor{failOn: map[string]error{"search_course_content": errors.New("boom")}}
	gen := NewGenerator(provider, nil)

	answer, err := gen.Generate(context.Background(), "q", "", someTools(), executor)
	require.NoError(t, err)

	assert.Equal(t, "sorry, something went wrong", answer)
	// Fail-fast: the second block is abandoned.
	assert.Len(t, executor.calls, 1)

	require.Len(t, provider.requests, 2)
	final := provider.requests[1]
	assert.Empty(t, final.Tools)

	// The single tool result is the error one.
	results := final.Messages[2].Content
	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Equal(t, "Tool execution failed: boom", results[0].Content)
}

func TestGenerateModelStopsAfterFirstRound(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		toolUseResponse(toolUseBlock("tu_1", "search_course_content", nil)),
		textResponse("done after one round"),
	}}
	executor := &recordingExecutor{outputs: map[string]string{"search_course_content": "result"}}
	gen := NewGenerator(provider, nil)

	answer, err := gen.Generate(context.Background(), "q", "", someTools(), executor)
	require.NoError(t, err)

	assert.Equal(t, "done after one round", answer)
	assert.Len(t, provider.requests, 2)
}

func TestGenerateFinalizationTransportErrorPropagates(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		toolUseResponse(toolUseBlock("tu_1", "search_course_content", nil)),
	}}
	executor := &recordingExecutor{failOn: map[string]error{"search_course_content": errors.New("boom")}}
	gen := NewGenerator(provider, nil)

	_, err := gen.Generate(context.Background(), "q", "", someTools(), executor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected call")
}
