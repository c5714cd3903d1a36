package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nkarpov/timebox-api/internal/model"
	"github.com/nkarpov/timebox-api/internal/repo"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) GetByListID(ctx context.Context, userID, listID string) ([]model.Task, error) {
	args := m.Called(ctx, userID, listID)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetAll(ctx context.Context, userID string) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, userID, id string) (model.Task, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Create(ctx context.Context, userID string, t model.Task) (model.Task, error) {
	args := m.Called(ctx, userID, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, userID, id string, patch model.TaskPatch) (model.Task, error) {
	args := m.Called(ctx, userID, id, patch)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTaskRepository) AddComment(ctx context.Context, userID, taskID, content string) (model.Task, error) {
	args := m.Called(ctx, userID, taskID, content)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Users(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func TestTaskService_CycleStatus(t *testing.T) {
	tests := []struct {
		name string
		from model.Status
		want model.Status
	}{
		{"todo moves to in_progress", model.StatusTodo, model.StatusInProgress},
		{"in_progress moves to completed", model.StatusInProgress, model.StatusCompleted},
		{"completed wraps to todo", model.StatusCompleted, model.StatusTodo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("GetByID", mock.Anything, "u1", "42").Return(model.Task{
				ID:     "42",
				Status: tt.from,
			}, nil)
			mockRepo.On("Update", mock.Anything, "u1", "42", mock.MatchedBy(func(p model.TaskPatch) bool {
				return p.Status != nil && *p.Status == tt.want
			})).Return(model.Task{ID: "42", Status: tt.want}, nil)

			service := NewTaskService(mockRepo)
			result, err := service.CycleStatus(context.Background(), "u1", "42")

			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_CycleStatus_NotFound(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("GetByID", mock.Anything, "u1", "missing").
		Return(model.Task{}, repo.ErrorNotFound)

	service := NewTaskService(mockRepo)
	_, err := service.CycleStatus(context.Background(), "u1", "missing")

	assert.ErrorIs(t, err, repo.ErrorNotFound)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_AddComment(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		setupMock func(*MockTaskRepository)
		wantErr   error
	}{
		{
			name:    "appends comment",
			content: "looks good",
			setupMock: func(m *MockTaskRepository) {
				m.On("AddComment", mock.Anything, "u1", "42", "looks good").
					Return(model.Task{ID: "42"}, nil)
			},
		},
		{
			name:      "empty content rejected",
			content:   "",
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "whitespace content rejected",
			content:   "   ",
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:    "missing task",
			content: "lost",
			setupMock: func(m *MockTaskRepository) {
				m.On("AddComment", mock.Anything, "u1", "42", "lost").
					Return(model.Task{}, repo.ErrorNotFound)
			},
			wantErr: repo.ErrorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			service := NewTaskService(mockRepo)
			_, err := service.AddComment(context.Background(), "u1", "42", tt.content)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_CreateDelegates(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Create", mock.Anything, "u1", mock.MatchedBy(func(t model.Task) bool {
		return t.Title == "New" && t.TaskListID == "1"
	})).Return(model.Task{
		ID:         "gen-1",
		Title:      "New",
		Status:     model.StatusTodo,
		Priority:   model.PriorityMedium,
		TaskListID: "1",
	}, nil)

	service := NewTaskService(mockRepo)
	result, err := service.Create(context.Background(), "u1", model.Task{Title: "New", TaskListID: "1"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	mockRepo.AssertExpectations(t)
}
