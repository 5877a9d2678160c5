// Package average реализует HTTP-обработчик агрегированной статистики цен
// продукта за окно последних N дней.
//
// В расчёт попадают только подтверждённые заявки. Среднее невзвешенное,
// единицы измерения не нормализуются. Если подтверждённых наблюдений нет,
// возвращается data: null.
package average

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gambiamarkets/price-tracker/internal/http/response"
	"github.com/gambiamarkets/price-tracker/internal/lib/sl"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// Handler обрабатывает запросы статистики цен.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики расчёта статистики цен.
type Service interface {
	AveragePrice(ctx context.Context, productUID string, days int) (*models.PriceStats, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Средняя цена продукта
// @Description Возвращает среднюю, минимальную и максимальную подтверждённую цену продукта за последние N дней (по умолчанию 30).
// @Tags Submissions
// @Produce  json
// @Param productUid path string true "UID продукта"
// @Param days query int false "Окно в днях"
// @Success 200 {object} map[string]any "Статистика цен"
// @Failure 400 {object} response.ErrorResponse "Отсутствует UID в URL"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /price-submissions/average/{productUid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.average"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	productUID := chi.URLParam(r, "productUid")
	if productUID == "" {
		log.Error("missing product uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing product uid in url"))
		return
	}

	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 {
		days = 30
	}

	stats, err := h.service.AveragePrice(r.Context(), productUID, days)
	if err != nil {
		log.Error("failed to calculate average price", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not calculate average price"))
		return
	}

	if stats == nil {
		log.Info("no approved submissions in window", slog.String("product_uid", productUID))
		render.JSON(w, r, response.StatusOKWithData(nil))
		return
	}

	log.Info("average price calculated",
		slog.String("product_uid", productUID), slog.Int("days", days))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product_uid": productUID,
		"days":        days,
		"stats":       stats,
	}))
}
