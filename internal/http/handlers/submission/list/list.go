// Package list реализует HTTP-обработчик списка ценовых заявок с фильтрами
// по продукту, рынку, автору, статусу и диапазону дат наблюдения.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gambiamarkets/price-tracker/internal/http/response"
	"github.com/gambiamarkets/price-tracker/internal/lib/sl"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка заявок.
type Service interface {
	List(ctx context.Context, filter models.SubmissionFilter) ([]*models.PriceSubmission, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список ценовых заявок
// @Description Возвращает заявки с фильтрами product_uid, market_uid, submitted_by, status, start_date, end_date и пагинацией.
// @Tags Submissions
// @Produce  json
// @Param product_uid query string false "UID продукта"
// @Param market_uid query string false "UID рынка"
// @Param submitted_by query string false "UID автора"
// @Param status query string false "Статус заявки (pending, approved, rejected)"
// @Param start_date query string false "Начало диапазона дат (2006-01-02)"
// @Param end_date query string false "Конец диапазона дат (2006-01-02)"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /price-submissions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.SubmissionFilter{Limit: 10}
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}
	if v := q.Get("product_uid"); v != "" {
		filter.ProductUID = &v
	}
	if v := q.Get("market_uid"); v != "" {
		filter.MarketUID = &v
	}
	if v := q.Get("submitted_by"); v != "" {
		filter.SubmittedBy = &v
	}
	if v := q.Get("status"); v != "" {
		status := models.SubmissionStatus(v)
		filter.Status = &status
	}
	if v, err := time.Parse(models.SubmissionDateLayout, q.Get("start_date")); err == nil {
		filter.StartDate = &v
	}
	if v, err := time.Parse(models.SubmissionDateLayout, q.Get("end_date")); err == nil {
		filter.EndDate = &v
	}

	subs, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list submissions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list submissions"))
		return
	}

	log.Info("submissions listed", slog.Int("count", len(subs)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":  len(subs),
		"submissions": subs,
	}))
}
