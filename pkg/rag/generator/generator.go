package generator

import (
	"context"
	"fmt"

	"ai-coursechat-be/internal/constant"
	"ai-coursechat-be/internal/pkg/logger"
	"ai-coursechat-be/pkg/llm"
)

// ToolExecutor dispatches one tool invocation requested by the model.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]any) (string, error)
}

// Returned when the round loop exhausts without any termination condition
// firing. The last allowed round always forces a tools-disabled call, so
// this is unreachable in practice.
const maxRoundsExceededMessage = "Error: maximum tool rounds exceeded without proper termination"

// Generator drives the completion-call / tool-execution cycle for one query.
//
// Per call it makes at most maxRounds tool rounds; three conditions end the
// loop, checked in this order: a tool execution failure (finalize without
// tools), budget exhaustion (finalize without tools), and the model
// answering directly. Only transport failures from the completion provider
// surface as errors; tool-level failures become error tool results.
type Generator struct {
	provider  llm.CompletionProvider
	maxRounds int
	logger    logger.ILogger
}

func NewGenerator(provider llm.CompletionProvider, log logger.ILogger) *Generator {
	return &Generator{
		provider:  provider,
		maxRounds: constant.MaxToolRounds,
		logger:    log,
	}
}

// Generate answers the query, optionally with conversation history (appended
// verbatim to the system prompt) and retrieval tools. Tools are only offered
// to the model when both definitions and an executor are supplied.
func (g *Generator) Generate(
	ctx context.Context,
	query string,
	history string,
	tools []llm.ToolDefinition,
	executor ToolExecutor,
) (string, error) {

	system := constant.ChatSystemPrompt
	if history != "" {
		system = system + "\n\nPrevious conversation:\n" + history
	}

	messages := []llm.Message{llm.UserMessage(llm.TextBlock(query))}

	req := &llm.Request{Messages: messages, System: system}
	if len(tools) > 0 && executor != nil {
		req.Tools = tools
		req.ToolChoice = &llm.ToolChoice{Type: "auto"}
	}

	resp, err := g.provider.CreateMessage(ctx, req)
	if err != nil {
		return "", err
	}

	if resp.StopReason != llm.StopReasonToolUse || executor == nil {
		return resp.FirstText(), nil
	}

	return g.executeToolRounds(ctx, resp, messages, system, tools, executor)
}

// executeToolRounds runs up to maxRounds of sequential tool execution,
// starting from a response whose stop reason requested tool use.
func (g *Generator) executeToolRounds(
	ctx context.Context,
	initial *llm.Response,
	messages []llm.Message,
	system string,
	tools []llm.ToolDefinition,
	executor ToolExecutor,
) (string, error) {

	current := initial

	for round := 1; round <= g.maxRounds; round++ {
		messages = append(messages, llm.AssistantMessage(current.Content...))

		results, failed := g.executeBlocks(ctx, current.Content, executor)
		if len(results) > 0 {
			messages = append(messages, llm.UserMessage(results...))
		}

		// A failed execution ends the query: one final call without tools so
		// the model can phrase an error-aware answer.
		if failed {
			g.debug("tool execution failed, finalizing without tools", map[string]interface{}{"round": round})
			return g.finalize(ctx, messages, system)
		}

		// Budget spent: force a textual answer. Tool requests in the final
		// response are ignored, never executed.
		if round >= g.maxRounds {
			g.debug("round budget spent, finalizing without tools", map[string]interface{}{"round": round})
			return g.finalize(ctx, messages, system)
		}

		next, err := g.provider.CreateMessage(ctx, &llm.Request{
			Messages:   messages,
			System:     system,
			Tools:      tools,
			ToolChoice: &llm.ToolChoice{Type: "auto"},
		})
		if err != nil {
			return "", err
		}

		// The model judged it has enough information.
		if next.StopReason != llm.StopReasonToolUse {
			return next.FirstText(), nil
		}

		current = next
	}

	return maxRoundsExceededMessage, nil
}

// executeBlocks runs the tool_use blocks of one assistant message in order.
// The first failure is captured as an error tool result and the remaining
// blocks are abandoned.
func (g *Generator) executeBlocks(
	ctx context.Context,
	blocks []llm.ContentBlock,
	executor ToolExecutor,
) ([]llm.ContentBlock, bool) {

	var results []llm.ContentBlock

	for _, block := range blocks {
		if block.Type != llm.BlockTypeToolUse {
			continue
		}

		output, err := executor.Execute(ctx, block.Name, block.Input)
		if err != nil {
			results = append(results, llm.ToolResultBlock(
				block.ID,
				fmt.Sprintf("Tool execution failed: %v", err),
				true,
			))
			return results, true
		}

		results = append(results, llm.ToolResultBlock(block.ID, output, false))
	}

	return results, false
}

// finalize makes one completion call with tools disabled and returns its text.
func (g *Generator) finalize(ctx context.Context, messages []llm.Message, system string) (string, error) {
	final, err := g.provider.CreateMessage(ctx, &llm.Request{
		Messages: messages,
		System:   system,
	})
	if err != nil {
		return "", err
	}
	return final.FirstText(), nil
}

func (g *Generator) debug(message string, details map[string]interface{}) {
	if g.logger != nil {
		g.logger.Debug("generator", message, details)
	}
}
