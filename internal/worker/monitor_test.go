package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nkarpov/timebox-api/internal/model"
	"github.com/nkarpov/timebox-api/internal/repo"
)

func TestMonitor_Scan(t *testing.T) {
	store := repo.NewStore()
	logger := zap.NewNop()
	ctx := context.Background()

	// Сеем bucket: вторая сэмпловая задача создана час назад при 60
	// отведенных минутах - уже просрочена. Первая (30 мин из 120) - нет.
	_, err := store.Tasks().GetByListID(ctx, "u1", "1")
	require.NoError(t, err)

	monitor := NewMonitor(store.Tasks(), logger, time.Second)

	expired, err := monitor.scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	// Просрочка фиксируется один раз
	expired, err = monitor.scan(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestMonitor_ScanSkipsCompleted(t *testing.T) {
	store := repo.NewStore()
	logger := zap.NewNop()
	ctx := context.Background()

	tasks, err := store.Tasks().GetByListID(ctx, "u1", "1")
	require.NoError(t, err)

	// Закрываем все задачи - монитор должен их игнорировать
	completed := model.StatusCompleted
	for _, task := range tasks {
		_, err := store.Tasks().Update(ctx, "u1", task.ID, model.TaskPatch{Status: &completed})
		require.NoError(t, err)
	}

	monitor := NewMonitor(store.Tasks(), logger, time.Second)

	expired, err := monitor.scan(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestMonitor_StartStop(t *testing.T) {
	store := repo.NewStore()
	logger := zap.NewNop()

	monitor := NewMonitor(store.Tasks(), logger, 10*time.Millisecond)
	monitor.Start(context.Background())

	// Даем тикеру поработать
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		monitor.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop gracefully within 5 seconds")
	}
}

func TestMonitor_StopsOnContextCancel(t *testing.T) {
	store := repo.NewStore()
	logger := zap.NewNop()

	ctx, cancel := context.WithCancel(context.Background())
	monitor := NewMonitor(store.Tasks(), logger, 10*time.Millisecond)
	monitor.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		monitor.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor goroutine did not exit on context cancel")
	}
}
