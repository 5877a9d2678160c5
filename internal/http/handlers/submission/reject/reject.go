// Package reject реализует HTTP-обработчик отклонения ценовой заявки.
//
// Доступ ограничен администраторами на уровне маршрутизации. Причина
// отклонения опциональна. Отклонение ранее подтверждённой заявки не
// очищает сведения о проверяющем.
package reject

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/gambiamarkets/price-tracker/internal/http/response"
	"github.com/gambiamarkets/price-tracker/internal/lib/sl"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// Handler обрабатывает запросы отклонения заявки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отклонения заявки.
type Service interface {
	Reject(ctx context.Context, uid string, req models.DummyRejection) (*models.PriceSubmission, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отклонить ценовую заявку
// @Description Переводит заявку в статус rejected с опциональной причиной отклонения.
// @Tags Submissions
// @Accept  json
// @Produce  json
// @Param uid path string true "UID заявки"
// @Param request body models.DummyRejection false "Причина отклонения"
// @Success 200 {object} map[string]any "Отклонённая заявка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /price-submissions/{uid}/reject [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.reject"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		log.Error("missing uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing uid in url"))
		return
	}

	// Тело запроса опционально: отклонение без причины допустимо.
	var req models.DummyRejection
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sub, err := h.service.Reject(r.Context(), uid, req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("submission not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("submission not found"))
			return
		}
		log.Error("failed to reject submission", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not reject submission"))
		return
	}

	log.Info("submission rejected", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"submission": sub,
	}))
}
