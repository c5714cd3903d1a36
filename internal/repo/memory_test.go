package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkarpov/timebox-api/internal/model"
)

// newTestStore дает детерминированные id вида gen-1, gen-2, ...
func newTestStore() *Store {
	s := NewStore()
	var n int
	s.newID = func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
	return s
}

func TestStore_SeedsOnFirstRead(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	lists, err := s.TaskLists().GetAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lists, 2)

	assert.Equal(t, "1", lists[0].ID)
	assert.Equal(t, "Personal Tasks", lists[0].Name)
	assert.Equal(t, "2", lists[1].ID)
	assert.Equal(t, "Work Projects", lists[1].Name)

	// Пересчет счетчика сам сеет задачи каждого списка
	assert.Equal(t, 2, lists[0].TaskCount)
	assert.Equal(t, 2, lists[1].TaskCount)

	// Повторное чтение идемпотентно
	again, err := s.TaskLists().GetAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, lists, again)
}

func TestStore_SeededTasks(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	tasks, err := s.Tasks().GetByListID(ctx, "u1", "1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	first := tasks[0]
	assert.Equal(t, "Complete project proposal", first.Title)
	assert.Equal(t, model.StatusInProgress, first.Status)
	assert.Equal(t, model.PriorityHigh, first.Priority)
	assert.Equal(t, 120, first.AllottedTime)
	require.Len(t, first.Comments, 1)
	assert.Equal(t, "Started working on the outline", first.Comments[0].Content)
	assert.Equal(t, first.ID, first.Comments[0].TaskID)
	// Первая задача создана полчаса назад - таймер уже тикает
	assert.InDelta(t, 30*time.Minute, time.Since(first.CreatedAt), float64(time.Second))

	second := tasks[1]
	assert.Equal(t, model.StatusTodo, second.Status)
	assert.Equal(t, model.PriorityMedium, second.Priority)
	assert.Equal(t, 60, second.AllottedTime)
	assert.Empty(t, second.Comments)
}

func TestStore_TaskCountFollowsMutations(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.TaskLists().GetAll(ctx, "u1")
	require.NoError(t, err)

	created, err := s.Tasks().Create(ctx, "u1", model.Task{Title: "X", TaskListID: "1"})
	require.NoError(t, err)

	list, err := s.TaskLists().GetByID(ctx, "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, 3, list.TaskCount)

	require.NoError(t, s.Tasks().Delete(ctx, "u1", created.ID))

	list, err = s.TaskLists().GetByID(ctx, "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, 2, list.TaskCount)
}

func TestStore_CreateTaskDefaults(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	created, err := s.Tasks().Create(ctx, "u1", model.Task{Title: "Bare", TaskListID: "1"})
	require.NoError(t, err)

	assert.Equal(t, model.StatusTodo, created.Status)
	assert.Equal(t, model.PriorityMedium, created.Priority)
	assert.Equal(t, model.DefaultAllottedTime, created.AllottedTime)
	assert.NotNil(t, created.Comments)
	assert.NotEmpty(t, created.ID)
}

func TestStore_CreateRoundTrip(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	created, err := s.Tasks().Create(ctx, "u1", model.Task{
		Title:        "Round trip",
		Description:  "check fields survive",
		Priority:     model.PriorityHigh,
		AllottedTime: 15,
		TaskListID:   "1",
	})
	require.NoError(t, err)

	fetched, err := s.Tasks().GetByID(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestStore_UpdateMissingFails(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.Tasks().Update(ctx, "u1", "no-such-id", model.TaskPatch{})
	assert.ErrorIs(t, err, ErrorNotFound)

	_, err = s.TaskLists().Update(ctx, "u1", "no-such-id", model.TaskListPatch{})
	assert.ErrorIs(t, err, ErrorNotFound)
}

func TestStore_DeleteMissingIsNoop(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	before, err := s.TaskLists().GetAll(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, s.Tasks().Delete(ctx, "u1", "no-such-id"))
	require.NoError(t, s.TaskLists().Delete(ctx, "u1", "no-such-id"))

	after, err := s.TaskLists().GetAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_UpdateMergesPartialFields(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	created, err := s.Tasks().Create(ctx, "u1", model.Task{
		Title:       "Original",
		Description: "keep me",
		TaskListID:  "1",
	})
	require.NoError(t, err)

	title := "Renamed"
	status := model.StatusCompleted
	updated, err := s.Tasks().Update(ctx, "u1", created.ID, model.TaskPatch{
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	assert.Equal(t, "keep me", updated.Description, "untouched fields survive")
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestStore_UserIsolation(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	// "1" - префикс "12"; двухуровневый ключ не должен их путать
	created, err := s.Tasks().Create(ctx, "12", model.Task{Title: "belongs to 12", TaskListID: "1"})
	require.NoError(t, err)

	_, err = s.Tasks().GetByID(ctx, "1", created.ID)
	assert.ErrorIs(t, err, ErrorNotFound)

	fetched, err := s.Tasks().GetByID(ctx, "12", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestStore_AddComment(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	created, err := s.Tasks().Create(ctx, "u1", model.Task{Title: "commented", TaskListID: "1"})
	require.NoError(t, err)

	task, err := s.Tasks().AddComment(ctx, "u1", created.ID, "first!")
	require.NoError(t, err)
	require.Len(t, task.Comments, 1)
	assert.Equal(t, "first!", task.Comments[0].Content)
	assert.Equal(t, created.ID, task.Comments[0].TaskID)

	// Комментарии только добавляются
	task, err = s.Tasks().AddComment(ctx, "u1", created.ID, "second")
	require.NoError(t, err)
	assert.Len(t, task.Comments, 2)

	_, err = s.Tasks().AddComment(ctx, "u1", "no-such-id", "lost")
	assert.ErrorIs(t, err, ErrorNotFound)
}

func TestStore_ListDeleteDoesNotCascade(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.Tasks().GetByListID(ctx, "u1", "1")
	require.NoError(t, err)

	require.NoError(t, s.TaskLists().Delete(ctx, "u1", "1"))

	lists, err := s.TaskLists().GetAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "2", lists[0].ID)

	// Задачи удаленного списка остаются на месте
	tasks, err := s.Tasks().GetByListID(ctx, "u1", "1")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestStore_GetAllTasksUnionsBuckets(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.Tasks().GetByListID(ctx, "u1", "1")
	require.NoError(t, err)
	_, err = s.Tasks().GetByListID(ctx, "u1", "2")
	require.NoError(t, err)

	all, err := s.Tasks().GetAll(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestStore_Users(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.Tasks().GetByListID(ctx, "bob", "1")
	require.NoError(t, err)
	_, err = s.Tasks().GetByListID(ctx, "alice", "1")
	require.NoError(t, err)

	users, err := s.Tasks().Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)
}
