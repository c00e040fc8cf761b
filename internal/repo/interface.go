package repo

import (
	"context"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами.
// owner = "" означает однопользовательский режим без изоляции
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id int64, owner string) (model.Task, error)
	List(ctx context.Context, owner string, filter model.TaskFilter) ([]model.Task, int, error)
	Update(ctx context.Context, id int64, owner string, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id int64, owner string) error
	SetCompleted(ctx context.Context, id int64, owner string, completed *bool) (model.Task, error)
}

// UserRepository хранит учетные записи для auth-слоя
type UserRepository interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUser(ctx context.Context, email string) (model.User, error)
}
