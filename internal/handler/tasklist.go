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

type TaskListHandler struct {
	service *service.TaskListService
	logger  *zap.Logger
}

func NewTaskListHandler(srv *service.TaskListService, logger *zap.Logger) *TaskListHandler {
	return &TaskListHandler{
		service: srv,
		logger:  logger,
	}
}

// Get отдает один список по ?id= или всю коллекцию пользователя
func (h *TaskListHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	if id := r.URL.Query().Get("id"); id != "" {
		list, err := h.service.GetByID(r.Context(), uid, id)
		if err != nil {
			handleError(w, r, h.logger, err)
			return
		}
		respond.JSON(w, r, http.StatusOK, list)
		return
	}

	lists, err := h.service.GetAll(r.Context(), uid)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, lists)
}

func (h *TaskListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TaskList
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	list, err := h.service.Create(r.Context(), userID(r), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusCreated, list)
}

func (h *TaskListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respond.Error(w, r, http.StatusBadRequest, "Task list ID is required")
		return
	}

	var patch model.TaskListPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	list, err := h.service.Update(r.Context(), userID(r), id, patch)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, list)
}

func (h *TaskListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respond.Error(w, r, http.StatusBadRequest, "Task list ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), userID(r), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.Success(w, r)
}
