package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter собирает все маршруты приложения
func NewRouter(auth *AuthHandler, lists *TaskListHandler, tasks *TaskHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Post("/auth/login", auth.Login)
	r.Post("/auth/logout", auth.Logout)

	// Все, что ниже, требует сессионную куку
	r.Group(func(r chi.Router) {
		r.Use(Auth)

		r.Get("/task-lists", lists.Get)
		r.Post("/task-lists", lists.Create)
		r.Put("/task-lists", lists.Update)
		r.Delete("/task-lists", lists.Delete)

		r.Get("/tasks", tasks.Get)
		r.Post("/tasks", tasks.Create)
		r.Put("/tasks", tasks.Update)
		r.Delete("/tasks", tasks.Delete)
		r.Post("/tasks/cycle", tasks.Cycle)
		r.Post("/tasks/comments", tasks.AddComment)
	})

	return r
}
