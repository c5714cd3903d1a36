package model

import "time"

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Next возвращает следующий статус в цикле todo -> in_progress -> completed -> todo
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusTodo
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultAllottedTime - время на задачу по умолчанию, в минутах
const DefaultAllottedTime = 60

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type TaskList struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	TaskCount   int       `json:"taskCount"` // денормализованный, пересчитывается при чтении
}

type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       Status     `json:"status"`
	Priority     Priority   `json:"priority"`
	AllottedTime int        `json:"allottedTime"` // в минутах
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	TaskListID   string     `json:"taskListId"`
	Comments     []Comment  `json:"comments"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	TaskID    string    `json:"taskId"`
}

// TaskListPatch - частичное обновление списка, nil-поля не трогаем
type TaskListPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// TaskPatch - частичное обновление задачи
type TaskPatch struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *Status    `json:"status"`
	Priority     *Priority  `json:"priority"`
	AllottedTime *int       `json:"allottedTime"`
	DueDate      *time.Time `json:"dueDate"`
}
