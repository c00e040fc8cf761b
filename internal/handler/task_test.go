package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-api/internal/auth"
	"github.com/BuzzLyutic/todo-api/internal/model"
	"github.com/BuzzLyutic/todo-api/internal/repo"
	"github.com/BuzzLyutic/todo-api/internal/service"
	"github.com/BuzzLyutic/todo-api/pkg/respond"
)

// Хэндлеры гоняем поверх memory-хранилища, БД тут не нужна
func setupRouter(t *testing.T) (http.Handler, *auth.JWTManager) {
	t.Helper()

	jwtManager := auth.NewJWTManager("test-secret", 15*time.Minute)
	taskService := service.NewTaskService(repo.NewMemoryRepo())
	taskHandler := NewTaskHandler(taskService, zap.NewNop())

	r := chi.NewRouter()
	r.Route("/tasks", func(r chi.Router) {
		r.Use(auth.Middleware(jwtManager, zap.NewNop()))
		r.Mount("/", taskHandler.Routes())
	})

	return r, jwtManager
}

func bearerFor(t *testing.T, manager *auth.JWTManager, subject string) string {
	t.Helper()
	token, _, err := manager.Generate(subject)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) model.Task {
	t.Helper()

	var env struct {
		Success bool       `json:"success"`
		Data    model.Task `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	require.True(t, env.Success)
	return env.Data
}

func createTask(t *testing.T, router http.Handler, bearer, title, description string) model.Task {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/tasks", bearer, map[string]string{
		"title":       title,
		"description": description,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeTask(t, w)
}

func TestTaskHandler_Create(t *testing.T) {
	router, jwtManager := setupRouter(t)
	alice := bearerFor(t, jwtManager, "alice@example.com")

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
	}{
		{
			name:     "successful creation",
			body:     map[string]string{"title": "Buy milk", "description": "2 liters"},
			wantCode: http.StatusCreated,
		},
		{
			name:     "empty title",
			body:     map[string]string{"title": "", "description": "x"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "whitespace title",
			body:     map[string]string{"title": "   "},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "title too long",
			body:     map[string]string{"title": strings.Repeat("a", 201)},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "description too long",
			body:     map[string]string{"title": "ok", "description": strings.Repeat("d", 1001)},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/tasks", alice, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)

			if tt.wantCode == http.StatusCreated {
				task := decodeTask(t, w)
				assert.NotZero(t, task.ID)
				assert.False(t, task.Completed)
			} else {
				var env respond.Envelope
				require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
				assert.False(t, env.Success)
				assert.NotEmpty(t, env.Error)
			}
		})
	}
}

func TestTaskHandler_RequiresAuth(t *testing.T) {
	router, _ := setupRouter(t)

	for _, path := range []string{"/tasks", "/tasks/1"} {
		w := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestTaskHandler_GetAndDelete(t *testing.T) {
	router, jwtManager := setupRouter(t)
	alice := bearerFor(t, jwtManager, "alice@example.com")

	created := createTask(t, router, alice, "Get me", "")

	t.Run("get existing task", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), alice, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		task := decodeTask(t, w)
		assert.Equal(t, created.ID, task.ID)
		assert.Equal(t, "Get me", task.Title)
	})

	t.Run("get non-existing task", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/tasks/99999", alice, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete then get", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/tasks/%d", created.ID), alice, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), alice, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		// Повторное удаление тоже not found
		w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/tasks/%d", created.ID), alice, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_OwnerIsolation(t *testing.T) {
	router, jwtManager := setupRouter(t)
	alice := bearerFor(t, jwtManager, "alice@example.com")
	bob := bearerFor(t, jwtManager, "bob@example.com")

	aliceTask := createTask(t, router, alice, "Alice task", "")
	createTask(t, router, bob, "Bob task", "")

	// Чужая задача неотличима от несуществующей
	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/tasks/%d", aliceTask.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/tasks/%d", aliceTask.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Задача Алисы на месте
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/tasks/%d", aliceTask.ID), alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// В списке каждого только свое
	w = doJSON(t, router, http.MethodGet, "/tasks", alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data struct {
			Tasks []model.Task `json:"tasks"`
			Total int          `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	assert.Equal(t, 1, env.Data.Total)
	require.Len(t, env.Data.Tasks, 1)
	assert.Equal(t, "Alice task", env.Data.Tasks[0].Title)
}

func TestTaskHandler_List(t *testing.T) {
	router, jwtManager := setupRouter(t)
	alice := bearerFor(t, jwtManager, "alice@example.com")

	for i := 0; i < 5; i++ {
		createTask(t, router, alice, fmt.Sprintf("Task %d", i), "")
	}
	done := createTask(t, router, alice, "Finished", "")
	w := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/tasks/%d/complete", done.ID), alice, map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)

	listData := func(t *testing.T, query string) (tasks []model.Task, total, limit, offset int) {
		w := doJSON(t, router, http.MethodGet, "/tasks"+query, alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var env struct {
			Data struct {
				Tasks  []model.Task `json:"tasks"`
				Total  int          `json:"total"`
				Limit  int          `json:"limit"`
				Offset int          `json:"offset"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
		return env.Data.Tasks, env.Data.Total, env.Data.Limit, env.Data.Offset
	}

	t.Run("defaults", func(t *testing.T) {
		tasks, total, limit, offset := listData(t, "")
		assert.Len(t, tasks, 6)
		assert.Equal(t, 6, total)
		assert.Equal(t, 50, limit)
		assert.Equal(t, 0, offset)
	})

	t.Run("status filter", func(t *testing.T) {
		tasks, total, _, _ := listData(t, "?status=pending")
		assert.Equal(t, 5, total)
		for _, task := range tasks {
			assert.False(t, task.Completed)
		}

		tasks, total, _, _ = listData(t, "?status=completed")
		assert.Equal(t, 1, total)
		require.Len(t, tasks, 1)
		assert.Equal(t, done.ID, tasks[0].ID)
	})

	t.Run("pagination partitions the set", func(t *testing.T) {
		page1, total, limit, _ := listData(t, "?limit=4&offset=0")
		assert.Equal(t, 6, total)
		assert.Equal(t, 4, limit)
		require.Len(t, page1, 4)

		page2, total, _, offset := listData(t, "?limit=4&offset=4")
		assert.Equal(t, 6, total)
		assert.Equal(t, 4, offset)
		require.Len(t, page2, 2)

		seen := map[int64]bool{}
		for _, task := range append(page1, page2...) {
			assert.False(t, seen[task.ID])
			seen[task.ID] = true
		}
		assert.Len(t, seen, 6)
	})

	t.Run("sort by title", func(t *testing.T) {
		tasks, _, _, _ := listData(t, "?sort=title")
		for i := 1; i < len(tasks); i++ {
			assert.LessOrEqual(t, tasks[i-1].Title, tasks[i].Title)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/tasks?status=bogus", alice, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("limit is capped", func(t *testing.T) {
		_, _, limit, _ := listData(t, "?limit=1000")
		assert.Equal(t, 100, limit)
	})
}

func TestTaskHandler_Update(t *testing.T) {
	router, jwtManager := setupRouter(t)
	alice := bearerFor(t, jwtManager, "alice@example.com")

	created := createTask(t, router, alice, "Original", "keep me")

	t.Run("partial update keeps absent fields", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), alice,
			map[string]string{"title": "Renamed"})
		assert.Equal(t, http.StatusOK, w.Code)

		task := decodeTask(t, w)
		assert.Equal(t, "Renamed", task.Title)
		assert.Equal(t, "keep me", task.Description)
	})

	t.Run("explicit empty description clears it", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), alice,
			map[string]string{"description": ""})
		assert.Equal(t, http.StatusOK, w.Code)

		task := decodeTask(t, w)
		assert.Equal(t, "Renamed", task.Title)
		assert.Equal(t, "", task.Description)
	})

	t.Run("invalid replacement title", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), alice,
			map[string]string{"title": "   "})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("update missing task", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/tasks/99999", alice,
			map[string]string{"title": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_Complete(t *testing.T) {
	router, jwtManager := setupRouter(t)
	alice := bearerFor(t, jwtManager, "alice@example.com")

	created := createTask(t, router, alice, "Toggle me", "")

	t.Run("empty body toggles", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/tasks/%d/complete", created.ID), alice, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeTask(t, w).Completed)

		w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/tasks/%d/complete", created.ID), alice, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, decodeTask(t, w).Completed)
	})

	t.Run("explicit value wins over toggle", func(t *testing.T) {
		body := map[string]bool{"completed": true}

		w := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/tasks/%d/complete", created.ID), alice, body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeTask(t, w).Completed)

		// Повтор с тем же значением ничего не переключает
		w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/tasks/%d/complete", created.ID), alice, body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeTask(t, w).Completed)
	})

	t.Run("missing task", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, "/tasks/99999/complete", alice, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
