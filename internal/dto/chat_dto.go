package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// SourceDTO is one citation attached to an assistant reply.
type SourceDTO struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

type SendChatRequest struct {
	ChatSessionId *uuid.UUID `json:"chat_session_id"` // nil starts a new session
	Query         string     `json:"query" validate:"required"`
}

type SendChatResponse struct {
	ChatSessionId uuid.UUID   `json:"chat_session_id"`
	Answer        string      `json:"answer"`
	Sources       []SourceDTO `json:"sources,omitempty"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID   `json:"id"`
	Role      string      `json:"role"`
	Chat      string      `json:"chat"`
	CreatedAt time.Time   `json:"created_at"`
	Citations []SourceDTO `json:"citations,omitempty"`
}
