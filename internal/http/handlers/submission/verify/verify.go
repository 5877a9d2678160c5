// Package verify реализует HTTP-обработчик подтверждения ценовой заявки.
//
// Доступ ограничен администраторами на уровне маршрутизации. Подтверждение
// не является терминальным: уже отклонённую или подтверждённую заявку можно
// подтвердить снова, проверяющий и время будут перештампованы.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gambiamarkets/price-tracker/internal/http/middlewarectx"
	"github.com/gambiamarkets/price-tracker/internal/http/response"
	"github.com/gambiamarkets/price-tracker/internal/lib/sl"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// Handler обрабатывает запросы подтверждения заявки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения заявки.
type Service interface {
	Verify(ctx context.Context, uid, verifierUID string) (*models.PriceSubmission, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтвердить ценовую заявку
// @Description Переводит заявку в статус approved и записывает проверяющего администратора.
// @Tags Submissions
// @Produce  json
// @Param uid path string true "UID заявки"
// @Success 200 {object} map[string]any "Подтверждённая заявка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /price-submissions/{uid}/verify [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.verify"

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

	useruid, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || useruid == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, err := h.service.Verify(r.Context(), uid, useruid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("submission not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("submission not found"))
			return
		}
		log.Error("failed to verify submission", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not verify submission"))
		return
	}

	log.Info("submission verified", slog.String("uid", uid), slog.String("verified_by", useruid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"submission": sub,
	}))
}
