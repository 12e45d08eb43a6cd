package entity

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	Id         uuid.UUID
	Title      string
	Link       string
	Instructor string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
