package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrValidation = errors.New("validation error")

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

type Task struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask валидирует поля и собирает задачу. ID назначает хранилище, не мы
func NewTask(title, description, userID string) (Task, error) {
	title = strings.TrimSpace(title)
	if err := ValidateTitle(title); err != nil {
		return Task{}, err
	}
	if err := ValidateDescription(description); err != nil {
		return Task{}, err
	}

	now := time.Now()
	return Task{
		UserID:      userID,
		Title:       title,
		Description: description, // описание храним как есть, без trim
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	// лимиты в символах, не в байтах - кириллица занимает два байта
	if utf8.RuneCountInString(trimmed) > MaxTitleLen {
		return fmt.Errorf("%w: title length out of bounds", ErrValidation)
	}
	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return fmt.Errorf("%w: description length out of bounds", ErrValidation)
	}
	return nil
}

func (t *Task) MarkComplete() {
	t.Completed = true
}

func (t *Task) MarkIncomplete() {
	t.Completed = false
}

// TaskPatch - частичное обновление. nil = поле не трогаем,
// указатель на пустую строку = явная очистка
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

const (
	StatusAll       = "all"
	StatusPending   = "pending"
	StatusCompleted = "completed"

	SortCreated = "created"
	SortTitle   = "title"
)

type TaskFilter struct {
	Status string
	Sort   string
	Limit  int
	Offset int
}
