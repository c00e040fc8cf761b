package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

const taskColumns = "id, user_id, title, description, completed, created_at, updated_at"

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, completed)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns+`
	`, t.UserID, t.Title, t.Description, t.Completed).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, mapError(err)
}

func (r *TaskRepo) Get(ctx context.Context, id int64, owner string) (model.Task, error) {
	var t model.Task
	// Чужой id и несуществующий id неразличимы - обе ветки дают not found
	err := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id, owner).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) List(ctx context.Context, owner string, filter model.TaskFilter) ([]model.Task, int, error) {
	completed := completedFilter(filter.Status)

	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM tasks
		WHERE user_id = $1 AND ($2::bool IS NULL OR completed = $2)
	`, owner, completed).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC, id DESC"
	if filter.Sort == model.SortTitle {
		orderBy = "title ASC, id ASC"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1 AND ($2::bool IS NULL OR completed = $2)
		ORDER BY `+orderBy+`
		OFFSET $3 LIMIT $4
	`, owner, completed, filter.Offset, filter.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, filter.Limit)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

func (r *TaskRepo) Update(ctx context.Context, id int64, owner string, patch model.TaskPatch) (model.Task, error) {
	var t model.Task
	// COALESCE: nil-поле patch приходит как NULL и оставляет старое значение
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    completed = COALESCE($5, completed),
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns+`
	`, id, owner, patch.Title, patch.Description, patch.Completed).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) Delete(ctx context.Context, id int64, owner string) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, owner)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TaskRepo) SetCompleted(ctx context.Context, id int64, owner string, completed *bool) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET completed = CASE WHEN $3::bool IS NULL THEN NOT completed ELSE $3 END,
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns+`
	`, id, owner, completed).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func completedFilter(status string) *bool {
	var v bool
	switch status {
	case model.StatusCompleted:
		v = true
	case model.StatusPending:
		v = false
	default: // all либо пусто
		return nil
	}
	return &v
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return ErrorConflict
		}
	}
	return err
}
