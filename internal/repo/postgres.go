package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkarpov/timebox-api/internal/model"
)

// PostgresStore - опциональный бэкенд поверх pgx. Включается, когда задан
// DATABASE_URL; семантика та же, что у Store, но данные переживают рестарт.
// taskCount здесь не хранится вовсе - он всегда вычисляется COUNT'ом.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) TaskLists() TaskListRepository { return &pgTaskListRepo{s} }
func (s *PostgresStore) Tasks() TaskRepository         { return &pgTaskRepo{s} }

// ensureSeeded атомарно помечает (user, scope) как засеянный.
// Возвращает true, если пометка новая и сэмплы нужно вставить.
func (s *PostgresStore) ensureSeeded(ctx context.Context, tx pgx.Tx, userID, scope string) (bool, error) {
	cmd, err := tx.Exec(ctx, `
		INSERT INTO seed_marks (user_id, scope) VALUES ($1, $2)
		ON CONFLICT (user_id, scope) DO NOTHING
	`, userID, scope)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (s *PostgresStore) seedLists(ctx context.Context, userID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	fresh, err := s.ensureSeeded(ctx, tx, userID, "lists")
	if err != nil {
		return err
	}
	if fresh {
		_, err = tx.Exec(ctx, `
			INSERT INTO task_lists (id, user_id, name, description)
			VALUES ('1', $1, 'Personal Tasks', 'My personal todo items'),
			       ('2', $1, 'Work Projects', 'Professional tasks and deadlines')
		`, userID)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) seedTasks(ctx context.Context, userID, listID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	fresh, err := s.ensureSeeded(ctx, tx, userID, "list:"+listID)
	if err != nil {
		return err
	}
	if fresh {
		firstID := uuid.NewString()
		_, err = tx.Exec(ctx, `
			INSERT INTO tasks (id, user_id, task_list_id, title, description,
			                   status, priority, allotted_time, created_at)
			VALUES ($1, $2, $3, 'Complete project proposal',
			        'Write and submit the Q4 project proposal',
			        'in_progress', 'high', 120, now() - interval '30 minutes'),
			       ($4, $2, $3, 'Review team feedback',
			        'Go through all the feedback from the team meeting',
			        'todo', 'medium', 60, now() - interval '1 hour')
		`, firstID, userID, listID, uuid.NewString())
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO comments (id, user_id, task_id, content, created_at)
			VALUES ($1, $2, $3, 'Started working on the outline', now() - interval '15 minutes')
		`, uuid.NewString(), userID, firstID)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

const listColumns = `
	l.id, l.name, l.description, l.user_id, l.created_at, l.updated_at,
	(SELECT COUNT(*) FROM tasks t
	 WHERE t.user_id = l.user_id AND t.task_list_id = l.id) AS task_count
`

func scanList(row pgx.Row) (model.TaskList, error) {
	var l model.TaskList
	err := row.Scan(&l.ID, &l.Name, &l.Description, &l.UserID,
		&l.CreatedAt, &l.UpdatedAt, &l.TaskCount)
	return l, err
}

type pgTaskListRepo struct{ s *PostgresStore }

func (r *pgTaskListRepo) GetAll(ctx context.Context, userID string) ([]model.TaskList, error) {
	if err := r.s.seedLists(ctx, userID); err != nil {
		return nil, err
	}

	// Пересчет счетчиков идет через сеющий путь задач, как и в памяти
	rows, err := r.s.pool.Query(ctx,
		"SELECT id FROM task_lists WHERE user_id = $1", userID)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := r.s.seedTasks(ctx, userID, id); err != nil {
			return nil, err
		}
	}

	rows, err = r.s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM task_lists l
		WHERE l.user_id = $1
		ORDER BY l.created_at, l.id
	`, listColumns), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make([]model.TaskList, 0, len(ids))
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (r *pgTaskListRepo) GetByID(ctx context.Context, userID, id string) (model.TaskList, error) {
	if err := r.s.seedLists(ctx, userID); err != nil {
		return model.TaskList{}, err
	}

	// Сеем задачи только для существующего списка, иначе несуществующий id
	// оставил бы после себя сироты в tasks
	var exists bool
	err := r.s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM task_lists WHERE user_id = $1 AND id = $2)",
		userID, id).Scan(&exists)
	if err != nil {
		return model.TaskList{}, err
	}
	if !exists {
		return model.TaskList{}, ErrorNotFound
	}
	if err := r.s.seedTasks(ctx, userID, id); err != nil {
		return model.TaskList{}, err
	}

	l, err := scanList(r.s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM task_lists l WHERE l.user_id = $1 AND l.id = $2
	`, listColumns), userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return l, ErrorNotFound
	}
	return l, err
}

func (r *pgTaskListRepo) Create(ctx context.Context, userID string, l model.TaskList) (model.TaskList, error) {
	if err := r.s.seedLists(ctx, userID); err != nil {
		return model.TaskList{}, err
	}

	created, err := scanList(r.s.pool.QueryRow(ctx, fmt.Sprintf(`
		WITH inserted AS (
			INSERT INTO task_lists (id, user_id, name, description)
			VALUES ($1, $2, $3, $4)
			RETURNING *
		)
		SELECT %s FROM inserted l
	`, listColumns), uuid.NewString(), userID, l.Name, l.Description))
	return created, err
}

func (r *pgTaskListRepo) Update(ctx context.Context, userID, id string, patch model.TaskListPatch) (model.TaskList, error) {
	l, err := scanList(r.s.pool.QueryRow(ctx, fmt.Sprintf(`
		WITH updated AS (
			UPDATE task_lists
			SET name = COALESCE($3, name),
			    description = COALESCE($4, description),
			    updated_at = now()
			WHERE user_id = $1 AND id = $2
			RETURNING *
		)
		SELECT %s FROM updated l
	`, listColumns), userID, id, patch.Name, patch.Description))
	if errors.Is(err, pgx.ErrNoRows) {
		return l, ErrorNotFound
	}
	return l, err
}

func (r *pgTaskListRepo) Delete(ctx context.Context, userID, id string) error {
	// Задачи списка не каскадируются; отсутствующий id - no-op
	_, err := r.s.pool.Exec(ctx,
		"DELETE FROM task_lists WHERE user_id = $1 AND id = $2", userID, id)
	return err
}

func (r *pgTaskListRepo) UpdateTaskCount(ctx context.Context, userID, listID string) error {
	// Счетчик всегда вычисляется запросом, хранить и чинить нечего
	return nil
}

const taskColumns = `
	id, title, description, status, priority, allotted_time,
	created_at, updated_at, due_date, task_list_id
`

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.AllottedTime, &t.CreatedAt, &t.UpdatedAt, &t.DueDate, &t.TaskListID)
	return t, err
}

type pgTaskRepo struct{ s *PostgresStore }

// attachComments дозагружает комментарии для набора задач
func (r *pgTaskRepo) attachComments(ctx context.Context, userID string, tasks []model.Task) error {
	byID := make(map[string]*model.Task, len(tasks))
	ids := make([]string, 0, len(tasks))
	for i := range tasks {
		tasks[i].Comments = []model.Comment{}
		byID[tasks[i].ID] = &tasks[i]
		ids = append(ids, tasks[i].ID)
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.s.pool.Query(ctx, `
		SELECT id, content, created_at, task_id
		FROM comments
		WHERE user_id = $1 AND task_id = ANY($2)
		ORDER BY created_at, id
	`, userID, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.CreatedAt, &c.TaskID); err != nil {
			return err
		}
		if t, ok := byID[c.TaskID]; ok {
			t.Comments = append(t.Comments, c)
		}
	}
	return rows.Err()
}

func (r *pgTaskRepo) collectTasks(ctx context.Context, userID, query string, args ...any) ([]model.Task, error) {
	rows, err := r.s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, r.attachComments(ctx, userID, tasks)
}

func (r *pgTaskRepo) GetByListID(ctx context.Context, userID, listID string) ([]model.Task, error) {
	if err := r.s.seedTasks(ctx, userID, listID); err != nil {
		return nil, err
	}
	return r.collectTasks(ctx, userID, fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE user_id = $1 AND task_list_id = $2
		ORDER BY created_at, id
	`, taskColumns), userID, listID)
}

func (r *pgTaskRepo) GetAll(ctx context.Context, userID string) ([]model.Task, error) {
	return r.collectTasks(ctx, userID, fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE user_id = $1
		ORDER BY task_list_id, created_at, id
	`, taskColumns), userID)
}

func (r *pgTaskRepo) GetByID(ctx context.Context, userID, id string) (model.Task, error) {
	t, err := scanTask(r.s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM tasks WHERE user_id = $1 AND id = $2
	`, taskColumns), userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, err
	}

	tasks := []model.Task{t}
	if err := r.attachComments(ctx, userID, tasks); err != nil {
		return t, err
	}
	return tasks[0], nil
}

func (r *pgTaskRepo) Create(ctx context.Context, userID string, t model.Task) (model.Task, error) {
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if t.AllottedTime == 0 {
		t.AllottedTime = model.DefaultAllottedTime
	}

	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return model.Task{}, err
	}
	defer tx.Rollback(ctx)

	// Создание занимает корзину (user, list): помечаем ее засеянной, чтобы
	// последующее первое чтение не подмешало сэмплы к задачам пользователя
	if t.TaskListID != "" {
		if _, err := r.s.ensureSeeded(ctx, tx, userID, "list:"+t.TaskListID); err != nil {
			return model.Task{}, err
		}
	}

	created, err := scanTask(tx.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO tasks (id, user_id, task_list_id, title, description,
		                   status, priority, allotted_time, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, taskColumns), uuid.NewString(), userID, t.TaskListID, t.Title, t.Description,
		string(t.Status), string(t.Priority), t.AllottedTime, t.DueDate))
	if err != nil {
		return created, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Task{}, err
	}
	created.Comments = []model.Comment{}
	return created, nil
}

func (r *pgTaskRepo) Update(ctx context.Context, userID, id string, patch model.TaskPatch) (model.Task, error) {
	var status, priority *string
	if patch.Status != nil {
		v := string(*patch.Status)
		status = &v
	}
	if patch.Priority != nil {
		v := string(*patch.Priority)
		priority = &v
	}

	t, err := scanTask(r.s.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE tasks
		SET title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    status = COALESCE($5, status),
		    priority = COALESCE($6, priority),
		    allotted_time = COALESCE($7, allotted_time),
		    due_date = COALESCE($8, due_date),
		    updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING %s
	`, taskColumns), userID, id, patch.Title, patch.Description,
		status, priority, patch.AllottedTime, patch.DueDate))
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, err
	}

	tasks := []model.Task{t}
	if err := r.attachComments(ctx, userID, tasks); err != nil {
		return t, err
	}
	return tasks[0], nil
}

func (r *pgTaskRepo) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM comments WHERE user_id = $1 AND task_id = $2", userID, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		"DELETE FROM tasks WHERE user_id = $1 AND id = $2", userID, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgTaskRepo) AddComment(ctx context.Context, userID, taskID, content string) (model.Task, error) {
	var exists bool
	err := r.s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM tasks WHERE user_id = $1 AND id = $2)",
		userID, taskID).Scan(&exists)
	if err != nil {
		return model.Task{}, err
	}
	if !exists {
		return model.Task{}, ErrorNotFound
	}

	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return model.Task{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO comments (id, user_id, task_id, content) VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), userID, taskID, content); err != nil {
		return model.Task{}, err
	}
	if _, err := tx.Exec(ctx,
		"UPDATE tasks SET updated_at = now() WHERE user_id = $1 AND id = $2",
		userID, taskID); err != nil {
		return model.Task{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Task{}, err
	}

	return r.GetByID(ctx, userID, taskID)
}

func (r *pgTaskRepo) Users(ctx context.Context) ([]string, error) {
	rows, err := r.s.pool.Query(ctx,
		"SELECT DISTINCT user_id FROM tasks ORDER BY user_id")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
