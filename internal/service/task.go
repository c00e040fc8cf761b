package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/BuzzLyutic/todo-api/internal/model"
	"github.com/BuzzLyutic/todo-api/internal/repo"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// TaskService - точка композиции: владелец из auth-слоя передается
// в хранилище на каждой операции, обходных путей нет
type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, owner, title, description string) (model.Task, error) {
	t, err := model.NewTask(title, description, owner)
	if err != nil {
		return model.Task{}, err
	}
	return s.repo.Create(ctx, t)
}

func (s *TaskService) Get(ctx context.Context, owner string, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id, owner)
}

func (s *TaskService) List(ctx context.Context, owner string, filter model.TaskFilter) ([]model.Task, int, error) {
	normalized, err := normalizeFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, owner, normalized)
}

// Update валидирует присланные поля так же, как Create.
// Отсутствующее поле (nil) не трогаем, присланное перезаписываем
func (s *TaskService) Update(ctx context.Context, owner string, id int64, patch model.TaskPatch) (model.Task, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if err := model.ValidateTitle(trimmed); err != nil {
			return model.Task{}, err
		}
		patch.Title = &trimmed
	}
	if patch.Description != nil {
		if err := model.ValidateDescription(*patch.Description); err != nil {
			return model.Task{}, err
		}
	}
	return s.repo.Update(ctx, id, owner, patch)
}

func (s *TaskService) Delete(ctx context.Context, owner string, id int64) error {
	return s.repo.Delete(ctx, id, owner)
}

// SetCompleted ставит явное значение, а при completed == nil переключает текущее
func (s *TaskService) SetCompleted(ctx context.Context, owner string, id int64, completed *bool) (model.Task, error) {
	return s.repo.SetCompleted(ctx, id, owner, completed)
}

func normalizeFilter(f model.TaskFilter) (model.TaskFilter, error) {
	switch f.Status {
	case "", model.StatusAll, model.StatusPending, model.StatusCompleted:
	default:
		return f, fmt.Errorf("%w: status must be one of all, pending, completed", model.ErrValidation)
	}

	switch f.Sort {
	case "", model.SortCreated, model.SortTitle:
	default:
		return f, fmt.Errorf("%w: sort must be one of created, title", model.ErrValidation)
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f, nil
}
