package service

import (
	"context"

	"github.com/nkarpov/timebox-api/internal/model"
	"github.com/nkarpov/timebox-api/internal/repo"
)

type TaskListService struct {
	repo repo.TaskListRepository
}

func NewTaskListService(repo repo.TaskListRepository) *TaskListService {
	return &TaskListService{repo: repo}
}

func (s *TaskListService) GetAll(ctx context.Context, userID string) ([]model.TaskList, error) {
	return s.repo.GetAll(ctx, userID)
}

func (s *TaskListService) GetByID(ctx context.Context, userID, id string) (model.TaskList, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// Create не валидирует имя: отсутствующее остается пустой строкой
func (s *TaskListService) Create(ctx context.Context, userID string, l model.TaskList) (model.TaskList, error) {
	return s.repo.Create(ctx, userID, l)
}

func (s *TaskListService) Update(ctx context.Context, userID, id string, patch model.TaskListPatch) (model.TaskList, error) {
	return s.repo.Update(ctx, userID, id, patch)
}

func (s *TaskListService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
