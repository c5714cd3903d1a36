package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nkarpov/timebox-api/internal/repo"
	"github.com/nkarpov/timebox-api/internal/service"
	"github.com/nkarpov/timebox-api/pkg/respond"
)

// handleError переводит ошибки нижних слоев в статусы; все неожиданное - 500
// с безликим сообщением, деталь остается в логе
func handleError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "validation error")
	default:
		logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
