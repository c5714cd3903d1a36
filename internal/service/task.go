package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nkarpov/timebox-api/internal/model"
	"github.com/nkarpov/timebox-api/internal/repo"
)

var ErrValidation = errors.New("validation error")

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) GetByListID(ctx context.Context, userID, listID string) ([]model.Task, error) {
	return s.repo.GetByListID(ctx, userID, listID)
}

func (s *TaskService) GetAll(ctx context.Context, userID string) ([]model.Task, error) {
	return s.repo.GetAll(ctx, userID)
}

func (s *TaskService) GetByID(ctx context.Context, userID, id string) (model.Task, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// Create полагается на дефолты репозитория: status=todo, priority=medium,
// allottedTime=60. Репозиторий же освежает счетчик затронутого списка.
func (s *TaskService) Create(ctx context.Context, userID string, t model.Task) (model.Task, error) {
	return s.repo.Create(ctx, userID, t)
}

func (s *TaskService) Update(ctx context.Context, userID, id string, patch model.TaskPatch) (model.Task, error) {
	return s.repo.Update(ctx, userID, id, patch)
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// CycleStatus переводит задачу на следующий шаг цикла
// todo -> in_progress -> completed -> todo
func (s *TaskService) CycleStatus(ctx context.Context, userID, id string) (model.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return t, err
	}
	next := t.Status.Next()
	return s.repo.Update(ctx, userID, id, model.TaskPatch{Status: &next})
}

func (s *TaskService) AddComment(ctx context.Context, userID, taskID, content string) (model.Task, error) {
	if strings.TrimSpace(content) == "" {
		return model.Task{}, ErrValidation
	}
	return s.repo.AddComment(ctx, userID, taskID, content)
}
