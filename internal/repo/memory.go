package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkarpov/timebox-api/internal/model"
)

// Store держит оба набора данных в памяти под одним мьютексом,
// поэтому мутация задачи и пересчет taskCount ее списка атомарны
// относительно остальных операций.
type Store struct {
	mu    sync.RWMutex
	lists map[string][]model.TaskList        // userID -> списки
	tasks map[string]map[string][]model.Task // userID -> listID -> задачи

	now   func() time.Time
	newID func() string
}

func NewStore() *Store {
	return &Store{
		lists: make(map[string][]model.TaskList),
		tasks: make(map[string]map[string][]model.Task),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Store) TaskLists() TaskListRepository { return &memTaskListRepo{s} }
func (s *Store) Tasks() TaskRepository         { return &memTaskRepo{s} }

// seedLists кладет два демонстрационных списка при первом обращении пользователя.
// Вызывать только под write-локом.
func (s *Store) seedLists(userID string) {
	if _, ok := s.lists[userID]; ok {
		return
	}
	now := s.now()
	s.lists[userID] = []model.TaskList{
		{
			ID:          "1",
			Name:        "Personal Tasks",
			Description: "My personal todo items",
			UserID:      userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "2",
			Name:        "Work Projects",
			Description: "Professional tasks and deadlines",
			UserID:      userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// seedTasks кладет две демонстрационные задачи при первом чтении пары (user, list).
// Первая создана 30 минут назад и уже несет один комментарий.
// Вызывать только под write-локом.
func (s *Store) seedTasks(userID, listID string) {
	buckets, ok := s.tasks[userID]
	if !ok {
		buckets = make(map[string][]model.Task)
		s.tasks[userID] = buckets
	}
	if _, ok := buckets[listID]; ok {
		return
	}

	now := s.now()
	first := model.Task{
		ID:           s.newID(),
		Title:        "Complete project proposal",
		Description:  "Write and submit the Q4 project proposal",
		Status:       model.StatusInProgress,
		Priority:     model.PriorityHigh,
		AllottedTime: 120,
		CreatedAt:    now.Add(-30 * time.Minute),
		UpdatedAt:    now,
		TaskListID:   listID,
	}
	first.Comments = []model.Comment{{
		ID:        s.newID(),
		Content:   "Started working on the outline",
		CreatedAt: now.Add(-15 * time.Minute),
		TaskID:    first.ID,
	}}
	second := model.Task{
		ID:           s.newID(),
		Title:        "Review team feedback",
		Description:  "Go through all the feedback from the team meeting",
		Status:       model.StatusTodo,
		Priority:     model.PriorityMedium,
		AllottedTime: model.DefaultAllottedTime,
		CreatedAt:    now.Add(-time.Hour),
		UpdatedAt:    now,
		TaskListID:   listID,
		Comments:     []model.Comment{},
	}
	buckets[listID] = []model.Task{first, second}
}

// tasksForList возвращает bucket задач списка, сначала засеяв его.
// Вызывать только под write-локом.
func (s *Store) tasksForList(userID, listID string) []model.Task {
	s.seedTasks(userID, listID)
	return s.tasks[userID][listID]
}

// recountList пересчитывает taskCount одного списка из хранилища задач.
// Счетчику никогда не доверяем - всегда считаем заново.
// No-op, если списка нет. Вызывать только под write-локом.
func (s *Store) recountList(userID, listID string) {
	lists := s.lists[userID]
	for i := range lists {
		if lists[i].ID == listID {
			lists[i].TaskCount = len(s.tasksForList(userID, listID))
			return
		}
	}
}

// getAllListsLocked - общий путь getAll/getById: сеет списки и
// освежает все счетчики. Вызывать только под write-локом.
func (s *Store) getAllListsLocked(userID string) []model.TaskList {
	s.seedLists(userID)
	lists := s.lists[userID]
	for i := range lists {
		lists[i].TaskCount = len(s.tasksForList(userID, lists[i].ID))
	}
	return lists
}

type memTaskListRepo struct{ s *Store }

func (r *memTaskListRepo) GetAll(_ context.Context, userID string) ([]model.TaskList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lists := r.s.getAllListsLocked(userID)
	out := make([]model.TaskList, len(lists))
	copy(out, lists)
	return out, nil
}

func (r *memTaskListRepo) GetByID(_ context.Context, userID, id string) (model.TaskList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, l := range r.s.getAllListsLocked(userID) {
		if l.ID == id {
			return l, nil
		}
	}
	return model.TaskList{}, ErrorNotFound
}

func (r *memTaskListRepo) Create(_ context.Context, userID string, l model.TaskList) (model.TaskList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.seedLists(userID)
	now := r.s.now()
	created := model.TaskList{
		ID:          r.s.newID(),
		Name:        l.Name, // отсутствующее имя остается пустой строкой
		Description: l.Description,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
		TaskCount:   0,
	}
	r.s.lists[userID] = append(r.s.lists[userID], created)
	return created, nil
}

func (r *memTaskListRepo) Update(_ context.Context, userID, id string, patch model.TaskListPatch) (model.TaskList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.seedLists(userID)
	lists := r.s.lists[userID]
	for i := range lists {
		if lists[i].ID != id {
			continue
		}
		if patch.Name != nil {
			lists[i].Name = *patch.Name
		}
		if patch.Description != nil {
			lists[i].Description = *patch.Description
		}
		lists[i].UpdatedAt = r.s.now()
		return lists[i], nil
	}
	return model.TaskList{}, ErrorNotFound
}

func (r *memTaskListRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.seedLists(userID)
	lists := r.s.lists[userID]
	filtered := lists[:0]
	for _, l := range lists {
		if l.ID != id {
			filtered = append(filtered, l)
		}
	}
	// Задачи списка намеренно не трогаем: каскадного удаления нет
	r.s.lists[userID] = filtered
	return nil
}

func (r *memTaskListRepo) UpdateTaskCount(_ context.Context, userID, listID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.recountList(userID, listID)
	return nil
}

type memTaskRepo struct{ s *Store }

func (r *memTaskRepo) GetByListID(_ context.Context, userID, listID string) ([]model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bucket := r.s.tasksForList(userID, listID)
	out := make([]model.Task, len(bucket))
	copy(out, bucket)
	return out, nil
}

func (r *memTaskRepo) GetAll(_ context.Context, userID string) ([]model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	buckets := r.s.tasks[userID]
	listIDs := make([]string, 0, len(buckets))
	for listID := range buckets {
		listIDs = append(listIDs, listID)
	}
	sort.Strings(listIDs)

	var out []model.Task
	for _, listID := range listIDs {
		out = append(out, buckets[listID]...)
	}
	return out, nil
}

func (r *memTaskRepo) GetByID(_ context.Context, userID, id string) (model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, _, _, ok := r.s.findTask(userID, id)
	if !ok {
		return model.Task{}, ErrorNotFound
	}
	return *t, nil
}

func (r *memTaskRepo) Create(_ context.Context, userID string, t model.Task) (model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	created := model.Task{
		ID:           r.s.newID(),
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		AllottedTime: t.AllottedTime,
		CreatedAt:    now,
		UpdatedAt:    now,
		DueDate:      t.DueDate,
		TaskListID:   t.TaskListID,
		Comments:     []model.Comment{},
	}
	if created.Status == "" {
		created.Status = model.StatusTodo
	}
	if created.Priority == "" {
		created.Priority = model.PriorityMedium
	}
	if created.AllottedTime == 0 {
		created.AllottedTime = model.DefaultAllottedTime
	}

	// Bucket создается как есть, без сэмплов: его первым жителем
	// становится сама задача
	buckets, ok := r.s.tasks[userID]
	if !ok {
		buckets = make(map[string][]model.Task)
		r.s.tasks[userID] = buckets
	}
	buckets[created.TaskListID] = append(buckets[created.TaskListID], created)

	if created.TaskListID != "" {
		r.s.recountList(userID, created.TaskListID)
	}
	return created, nil
}

func (r *memTaskRepo) Update(_ context.Context, userID, id string, patch model.TaskPatch) (model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, _, _, ok := r.s.findTask(userID, id)
	if !ok {
		return model.Task{}, ErrorNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		// Прямое обновление принимает любой статус, цикл не охраняется
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.AllottedTime != nil {
		t.AllottedTime = *patch.AllottedTime
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	t.UpdatedAt = r.s.now()
	return *t, nil
}

func (r *memTaskRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, listID, idx, ok := r.s.findTask(userID, id)
	if !ok {
		return nil // no-op по контракту
	}
	taskListID := t.TaskListID

	bucket := r.s.tasks[userID][listID]
	r.s.tasks[userID][listID] = append(bucket[:idx], bucket[idx+1:]...)

	if taskListID != "" {
		r.s.recountList(userID, taskListID)
	}
	return nil
}

func (r *memTaskRepo) AddComment(_ context.Context, userID, taskID, content string) (model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, _, _, ok := r.s.findTask(userID, taskID)
	if !ok {
		return model.Task{}, ErrorNotFound
	}
	t.Comments = append(t.Comments, model.Comment{
		ID:        r.s.newID(),
		Content:   content,
		CreatedAt: r.s.now(),
		TaskID:    taskID,
	})
	t.UpdatedAt = r.s.now()
	return *t, nil
}

func (r *memTaskRepo) Users(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]string, 0, len(r.s.tasks))
	for userID := range r.s.tasks {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

// findTask ищет задачу по всем bucket'ам пользователя. Ключи двухуровневые,
// так что id "1" никогда не заденет данные пользователя "12".
// Вызывать под локом.
func (s *Store) findTask(userID, id string) (*model.Task, string, int, bool) {
	for listID, bucket := range s.tasks[userID] {
		for i := range bucket {
			if bucket[i].ID == id {
				return &bucket[i], listID, i, true
			}
		}
	}
	return nil, "", 0, false
}
