package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-coursechat-be/internal/constant"
	"ai-coursechat-be/internal/dto"
	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/pkg/logger"
	"ai-coursechat-be/internal/repository/specification"
	"ai-coursechat-be/internal/repository/unitofwork"
	"ai-coursechat-be/pkg/rag/generator"
	"ai-coursechat-be/pkg/rag/tools"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// historyExchanges is how many user/assistant exchange pairs are replayed
// into the system prompt on each query.
const historyExchanges = 2

// maxTitleLength truncates the session title derived from the first query.
const maxTitleLength = 60

type IChatService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	generator    *generator.Generator
	contentStore tools.ContentStore
	logger       logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	gen *generator.Generator,
	contentStore tools.ContentStore,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		generator:    gen,
		contentStore: contentStore,
		logger:       log,
	}
}

// CreateSession creates a new chat session seeded with a greeting message
func (cs *chatService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		Title:     "Unnamed session",
		CreatedAt: now,
	}

	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          "Hi, what would you like to know about your courses?",
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

// GetAllSessions retrieves all chat sessions, newest first
func (cs *chatService) GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	return response, nil
}

// SendChat answers one user query through the tool-augmented generator and
// persists both sides of the exchange with the sources cited by the tools.
func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSession, isNew, err := cs.resolveSession(ctx, uow, request)
	if err != nil {
		return nil, err
	}

	history := ""
	if !isNew {
		history, err = cs.loadHistory(ctx, uow, chatSession.Id)
		if err != nil {
			return nil, err
		}
	}

	// One registry per query: recorded sources are per-query state.
	registry := tools.NewRegistry(
		tools.NewSearchTool(cs.contentStore),
		tools.NewOutlineTool(cs.contentStore),
	)

	answer, err := cs.generator.Generate(ctx, request.Query, history, registry.ToolDefinitions(), registry)
	if err != nil {
		cs.logger.Error("chat-service", "generation failed", map[string]interface{}{
			"session_id": chatSession.Id.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	sources := registry.LastSources()
	registry.ResetSources()

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          request.Query,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}
	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          answer,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now.Add(1 * time.Millisecond),
	}

	citations := make([]*entity.ChatCitation, 0, len(sources))
	sourceDTOs := make([]dto.SourceDTO, 0, len(sources))
	for i, src := range sources {
		citations = append(citations, &entity.ChatCitation{
			Id:            uuid.New(),
			ChatMessageId: assistantMessage.Id,
			Text:          src.Text,
			Link:          src.Link,
			Position:      i,
		})
		sourceDTOs = append(sourceDTOs, dto.SourceDTO{Text: src.Text, Link: src.Link})
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// A new session row is only written once the exchange succeeded, in the
	// same transaction as its messages. No orphan rows on generation failure.
	if isNew {
		chatSession.Title = deriveTitle(request.Query)
		if err := uow.ChatSessionRepository().Create(ctx, chatSession); err != nil {
			return nil, err
		}
	}

	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		return nil, err
	}
	if err := uow.ChatCitationRepository().CreateBulk(ctx, citations); err != nil {
		return nil, err
	}

	if !isNew && chatSession.Title == "Unnamed session" {
		chatSession.Title = deriveTitle(request.Query)
		updatedAt := now
		chatSession.UpdatedAt = &updatedAt
		if err := uow.ChatSessionRepository().Update(ctx, chatSession); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		ChatSessionId: chatSession.Id,
		Answer:        answer,
		Sources:       sourceDTOs,
	}, nil
}

// resolveSession loads the requested session, or builds a fresh unpersisted
// one when the request does not name any. The caller writes the new row
// together with the first exchange.
func (cs *chatService) resolveSession(ctx context.Context, uow unitofwork.UnitOfWork, request *dto.SendChatRequest) (*entity.ChatSession, bool, error) {
	if request.ChatSessionId == nil {
		chatSession := &entity.ChatSession{
			Id:        uuid.New(),
			Title:     "Unnamed session",
			CreatedAt: time.Now(),
		}
		return chatSession, true, nil
	}

	chatSession, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: *request.ChatSessionId})
	if err != nil {
		return nil, false, err
	}
	if chatSession == nil {
		return nil, false, fiber.NewError(fiber.StatusNotFound, "chat session not found")
	}
	return chatSession, false, nil
}

// loadHistory renders the last exchanges as alternating User/Assistant lines
// for the generator's system prompt. The window is limited in the query,
// newest first, then reversed back into chronological order.
func (cs *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) (string, error) {
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: historyExchanges * 2},
	)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		prefix := "User"
		if msg.Role == constant.ChatMessageRoleModel {
			prefix = "Assistant"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", prefix, msg.Chat))
	}

	return strings.Join(lines, "\n"), nil
}

// GetChatHistory retrieves the full message list of a session with citations
func (cs *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "chat session not found")
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messageIds := make([]uuid.UUID, len(chatMessages))
	for i, msg := range chatMessages {
		messageIds[i] = msg.Id
	}

	citations, err := uow.ChatCitationRepository().FindAllByMessageIds(ctx, messageIds)
	if err != nil {
		return nil, err
	}

	citationsByMsgId := make(map[uuid.UUID][]dto.SourceDTO)
	for _, c := range citations {
		citationsByMsgId[c.ChatMessageId] = append(citationsByMsgId[c.ChatMessageId], dto.SourceDTO{
			Text: c.Text,
			Link: c.Link,
		})
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		resp = append(resp, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			CreatedAt: msg.CreatedAt,
			Citations: citationsByMsgId[msg.Id],
		})
	}

	return resp, nil
}

// DeleteSession removes a chat session with its messages and citations
func (cs *chatService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if sess == nil {
		return fiber.NewError(fiber.StatusNotFound, "chat session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatCitationRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}

	return uow.Commit()
}

func deriveTitle(query string) string {
	title := strings.TrimSpace(query)
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength] + "..."
	}
	if title == "" {
		title = "Unnamed session"
	}
	return title
}
