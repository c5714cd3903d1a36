package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/nkarpov/timebox-api/internal/model"
	"github.com/nkarpov/timebox-api/internal/service"
	"github.com/nkarpov/timebox-api/pkg/respond"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

// Get отдает задачу по ?id=, задачи списка по ?taskListId=
// или все задачи пользователя
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	query := r.URL.Query()

	if id := query.Get("id"); id != "" {
		task, err := h.service.GetByID(r.Context(), uid, id)
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, task)
		return
	}

	if listID := query.Get("taskListId"); listID != "" {
		tasks, err := h.service.GetByListID(r.Context(), uid, listID)
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, tasks)
		return
	}

	tasks, err := h.service.GetAll(r.Context(), uid)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Task
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, err := h.service.Create(r.Context(), userID(r), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respond.Error(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	var patch model.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := h.service.Update(r.Context(), userID(r), id, patch)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respond.Error(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), userID(r), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.Success(w, r)
}

// Cycle двигает статус задачи по кругу todo -> in_progress -> completed -> todo
func (h *TaskHandler) Cycle(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respond.Error(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	task, err := h.service.CycleStatus(r.Context(), userID(r), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respond.Error(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	task, err := h.service.AddComment(r.Context(), userID(r), id, req.Content)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}
