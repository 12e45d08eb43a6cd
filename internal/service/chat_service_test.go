package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"ai-coursechat-be/internal/constant"
	"ai-coursechat-be/internal/dto"
	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/repository/contract"
	"ai-coursechat-be/internal/repository/specification"
	"ai-coursechat-be/internal/repository/unitofwork"
	"ai-coursechat-be/pkg/llm"
	"ai-coursechat-be/pkg/rag/generator"
	"ai-coursechat-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type stubContentStore struct{}

func (stubContentStore) Search(ctx context.Context, query, courseName string, lessonNumber *int) *store.SearchResults {
	return &store.SearchResults{}
}
func (stubContentStore) GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) string {
	return ""
}
func (stubContentStore) GetCourseOutline(ctx context.Context, courseName string) *store.CourseOutline {
	return nil
}

// staticProvider answers every completion call with the same text, or fails.
type staticProvider struct {
	text string
	err  error
}

func (p *staticProvider) CreateMessage(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{
		Content:    []llm.ContentBlock{llm.TextBlock(p.text)},
		StopReason: llm.StopReasonEndTurn,
	}, nil
}

// fakeMessageRepo serves a fixed message list, honoring OrderBy and
// Pagination the way the real repository would; unused methods panic via the
// embedded nil interface.
type fakeMessageRepo struct {
	contract.ChatMessageRepository
	messages []*entity.ChatMessage
	gotSpecs []specification.Specification
	created  []*entity.ChatMessage
	events   *[]string
}

func (f *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	f.gotSpecs = append(f.gotSpecs, specs...)

	result := append([]*entity.ChatMessage(nil), f.messages...)
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.OrderBy:
			sort.SliceStable(result, func(i, j int) bool {
				if sp.Desc {
					return result[i].CreatedAt.After(result[j].CreatedAt)
				}
				return result[i].CreatedAt.Before(result[j].CreatedAt)
			})
		case specification.Pagination:
			if sp.Limit > 0 && len(result) > sp.Limit {
				result = result[:sp.Limit]
			}
		}
	}
	return result, nil
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	f.created = append(f.created, message)
	if f.events != nil {
		*f.events = append(*f.events, "create-message")
	}
	return nil
}

type fakeSessionRepo struct {
	contract.ChatSessionRepository
	existing *entity.ChatSession
	created  []*entity.ChatSession
	updated  []*entity.ChatSession
	events   *[]string
}

func (f *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	return f.existing, nil
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	f.created = append(f.created, session)
	if f.events != nil {
		*f.events = append(*f.events, "create-session")
	}
	return nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	f.updated = append(f.updated, session)
	if f.events != nil {
		*f.events = append(*f.events, "update-session")
	}
	return nil
}

type fakeCitationRepo struct {
	contract.ChatCitationRepository
	bulk   [][]*entity.ChatCitation
	events *[]string
}

func (f *fakeCitationRepo) CreateBulk(ctx context.Context, citations []*entity.ChatCitation) error {
	f.bulk = append(f.bulk, citations)
	if f.events != nil {
		*f.events = append(*f.events, "create-citations")
	}
	return nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	sessionRepo  contract.ChatSessionRepository
	messageRepo  contract.ChatMessageRepository
	citationRepo contract.ChatCitationRepository
	events       *[]string
}

func (f *fakeUow) Begin(ctx context.Context) error {
	if f.events != nil {
		*f.events = append(*f.events, "begin")
	}
	return nil
}

func (f *fakeUow) Commit() error {
	if f.events != nil {
		*f.events = append(*f.events, "commit")
	}
	return nil
}

func (f *fakeUow) Rollback() error { return nil }

func (f *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return f.sessionRepo
}

func (f *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return f.messageRepo
}

func (f *fakeUow) ChatCitationRepository() contract.ChatCitationRepository {
	return f.citationRepo
}

type fakeFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newChatServiceForTest(uow unitofwork.UnitOfWork, provider llm.CompletionProvider) *chatService {
	return &chatService{
		uowFactory:   &fakeFactory{uow: uow},
		generator:    generator.NewGenerator(provider, nil),
		contentStore: stubContentStore{},
		logger:       noopLogger{},
	}
}

func message(role, chat string, offset time.Duration) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:            uuid.New(),
		Role:          role,
		Chat:          chat,
		ChatSessionId: uuid.New(),
		CreatedAt:     time.Now().Add(offset),
	}
}

func TestLoadHistoryFormatsExchanges(t *testing.T) {
	uow := &fakeUow{messageRepo: &fakeMessageRepo{messages: []*entity.ChatMessage{
		message(constant.ChatMessageRoleUser, "what is MCP?", 0),
		message(constant.ChatMessageRoleModel, "A protocol.", time.Second),
	}}}
	cs := &chatService{}

	history, err := cs.loadHistory(context.Background(), uow, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "User: what is MCP?\nAssistant: A protocol.", history)
}

func TestLoadHistoryEmptySession(t *testing.T) {
	uow := &fakeUow{messageRepo: &fakeMessageRepo{}}
	cs := &chatService{}

	history, err := cs.loadHistory(context.Background(), uow, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "", history)
}

func TestLoadHistoryWindowsRecentExchangesInQuery(t *testing.T) {
	var messages []*entity.ChatMessage
	for i := 0; i < 4; i++ {
		messages = append(messages,
			message(constant.ChatMessageRoleUser, "old question", time.Duration(i)*time.Minute),
			message(constant.ChatMessageRoleModel, "old answer", time.Duration(i)*time.Minute+time.Second),
		)
	}
	messages = append(messages,
		message(constant.ChatMessageRoleUser, "newest question", time.Hour),
		message(constant.ChatMessageRoleModel, "newest answer", time.Hour+time.Second),
	)

	repo := &fakeMessageRepo{messages: messages}
	uow := &fakeUow{messageRepo: repo}
	cs := &chatService{}

	history, err := cs.loadHistory(context.Background(), uow, uuid.New())
	require.NoError(t, err)

	// The window is pushed into the query, not trimmed in memory.
	assert.Contains(t, repo.gotSpecs, specification.Pagination{Limit: historyExchanges * 2})

	lines := strings.Split(history, "\n")
	assert.Len(t, lines, historyExchanges*2)
	assert.Equal(t, "User: newest question", lines[len(lines)-2])
	assert.Equal(t, "Assistant: newest answer", lines[len(lines)-1])
}

func TestSendChatNewSessionPersistedWithExchange(t *testing.T) {
	var events []string
	sessionRepo := &fakeSessionRepo{events: &events}
	messageRepo := &fakeMessageRepo{events: &events}
	citationRepo := &fakeCitationRepo{events: &events}
	uow := &fakeUow{
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		citationRepo: citationRepo,
		events:       &events,
	}
	cs := newChatServiceForTest(uow, &staticProvider{text: "an answer"})

	res, err := cs.SendChat(context.Background(), &dto.SendChatRequest{Query: "What is MCP?"})
	require.NoError(t, err)

	assert.Equal(t, "an answer", res.Answer)

	// The session row is written inside the same transaction as its messages.
	assert.Equal(t, []string{
		"begin",
		"create-session",
		"create-message",
		"create-message",
		"create-citations",
		"commit",
	}, events)

	require.Len(t, sessionRepo.created, 1)
	assert.Equal(t, "What is MCP?", sessionRepo.created[0].Title)
	assert.Equal(t, sessionRepo.created[0].Id, res.ChatSessionId)

	require.Len(t, messageRepo.created, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, messageRepo.created[0].Role)
	assert.Equal(t, constant.ChatMessageRoleModel, messageRepo.created[1].Role)
}

func TestSendChatGenerationFailureWritesNothing(t *testing.T) {
	var events []string
	sessionRepo := &fakeSessionRepo{events: &events}
	messageRepo := &fakeMessageRepo{events: &events}
	uow := &fakeUow{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		events:      &events,
	}
	cs := newChatServiceForTest(uow, &staticProvider{err: errors.New("connection reset")})

	_, err := cs.SendChat(context.Background(), &dto.SendChatRequest{Query: "What is MCP?"})
	require.Error(t, err)

	// No transaction, no session row, no messages.
	assert.Empty(t, events)
	assert.Empty(t, sessionRepo.created)
	assert.Empty(t, messageRepo.created)
}

func TestSendChatNamesUnnamedSessionFromQuery(t *testing.T) {
	var events []string
	existing := &entity.ChatSession{
		Id:        uuid.New(),
		Title:     "Unnamed session",
		CreatedAt: time.Now(),
	}
	sessionRepo := &fakeSessionRepo{existing: existing, events: &events}
	uow := &fakeUow{
		sessionRepo:  sessionRepo,
		messageRepo:  &fakeMessageRepo{events: &events},
		citationRepo: &fakeCitationRepo{events: &events},
		events:       &events,
	}
	cs := newChatServiceForTest(uow, &staticProvider{text: "an answer"})

	_, err := cs.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: &existing.Id,
		Query:         "Explain embeddings",
	})
	require.NoError(t, err)

	require.Len(t, sessionRepo.updated, 1)
	assert.Equal(t, "Explain embeddings", sessionRepo.updated[0].Title)
	assert.Empty(t, sessionRepo.created)
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "short query verbatim",
			query: "What is MCP?",
			want:  "What is MCP?",
		},
		{
			name:  "long query truncated",
			query: strings.Repeat("a", 80),
			want:  strings.Repeat("a", 60) + "...",
		},
		{
			name:  "whitespace only",
			query: "   ",
			want:  "Unnamed session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveTitle(tt.query))
		})
	}
}
