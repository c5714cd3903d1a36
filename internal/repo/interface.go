package repo

import (
	"context"
	"errors"

	"github.com/nkarpov/timebox-api/internal/model"
)

var ErrorNotFound = errors.New("not found")

// TaskListRepository определяет интерфейс для работы со списками задач
type TaskListRepository interface {
	GetAll(ctx context.Context, userID string) ([]model.TaskList, error)
	GetByID(ctx context.Context, userID, id string) (model.TaskList, error)
	Create(ctx context.Context, userID string, l model.TaskList) (model.TaskList, error)
	Update(ctx context.Context, userID, id string, patch model.TaskListPatch) (model.TaskList, error)
	Delete(ctx context.Context, userID, id string) error
	UpdateTaskCount(ctx context.Context, userID, listID string) error
}

// TaskRepository определяет интерфейс для работы с задачами.
// Delete по несуществующему id - молчаливый no-op, Update - ErrorNotFound.
type TaskRepository interface {
	GetByListID(ctx context.Context, userID, listID string) ([]model.Task, error)
	GetAll(ctx context.Context, userID string) ([]model.Task, error)
	GetByID(ctx context.Context, userID, id string) (model.Task, error)
	Create(ctx context.Context, userID string, t model.Task) (model.Task, error)
	Update(ctx context.Context, userID, id string, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, userID, id string) error
	AddComment(ctx context.Context, userID, taskID, content string) (model.Task, error)
	Users(ctx context.Context) ([]string, error)
}
