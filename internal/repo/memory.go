package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

// MemoryRepo - хранилище в памяти для консольного режима и тестов.
// Все живет до завершения процесса, это ожидаемое поведение
type MemoryRepo struct {
	mu     sync.Mutex
	tasks  []model.Task
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
	}
}

func (r *MemoryRepo) Create(_ context.Context, t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// id выдаем последовательно и никогда не переиспользуем
	t.ID = r.nextID
	r.nextID++
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *MemoryRepo) Get(_ context.Context, id int64, owner string) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id, owner); i >= 0 {
		return r.tasks[i], nil
	}
	return model.Task{}, ErrorNotFound
}

func (r *MemoryRepo) List(_ context.Context, owner string, filter model.TaskFilter) ([]model.Task, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if t.UserID != owner {
			continue
		}
		switch filter.Status {
		case model.StatusCompleted:
			if !t.Completed {
				continue
			}
		case model.StatusPending:
			if t.Completed {
				continue
			}
		}
		filtered = append(filtered, t)
	}

	if filter.Sort == model.SortTitle {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Title < filtered[j].Title
		})
	} else { // по умолчанию новые сверху
		sort.SliceStable(filtered, func(i, j int) bool {
			if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
				return filtered[i].ID > filtered[j].ID
			}
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}

	total := len(filtered)

	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}

	page := make([]model.Task, end-start)
	copy(page, filtered[start:end])
	return page, total, nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, owner string, patch model.TaskPatch) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, owner)
	if i < 0 {
		return model.Task{}, ErrorNotFound
	}

	t := &r.tasks[i]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = time.Now()
	return *t, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, owner)
	if i < 0 {
		return ErrorNotFound
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return nil
}

func (r *MemoryRepo) SetCompleted(_ context.Context, id int64, owner string, completed *bool) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, owner)
	if i < 0 {
		return model.Task{}, ErrorNotFound
	}

	t := &r.tasks[i]
	if completed == nil {
		t.Completed = !t.Completed
	} else if *completed {
		t.MarkComplete()
	} else {
		t.MarkIncomplete()
	}
	t.UpdatedAt = time.Now()
	return *t, nil
}

func (r *MemoryRepo) indexOf(id int64, owner string) int {
	for i, t := range r.tasks {
		if t.ID == id && t.UserID == owner {
			return i
		}
	}
	return -1
}
