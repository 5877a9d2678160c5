// Package history реализует HTTP-обработчик истории подтверждённых цен
// продукта на конкретном рынке. Записи отдаются от новых к старым.
package history

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gambiamarkets/price-tracker/internal/http/response"
	"github.com/gambiamarkets/price-tracker/internal/lib/sl"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// Handler обрабатывает запросы истории цен.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики истории цен.
type Service interface {
	History(ctx context.Context, productUID, marketUID string) ([]*models.PriceSubmission, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История цен продукта на рынке
// @Description Возвращает подтверждённые наблюдения цены продукта на рынке, отсортированные по дате наблюдения по убыванию.
// @Tags Submissions
// @Produce  json
// @Param productUid path string true "UID продукта"
// @Param marketUid path string true "UID рынка"
// @Success 200 {object} map[string]any "История цен"
// @Failure 400 {object} response.ErrorResponse "Отсутствует UID в URL"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /price-submissions/history/{productUid}/{marketUid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.history"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	productUID := chi.URLParam(r, "productUid")
	marketUID := chi.URLParam(r, "marketUid")
	if productUID == "" || marketUID == "" {
		log.Error("missing uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing uid in url"))
		return
	}

	subs, err := h.service.History(r.Context(), productUID, marketUID)
	if err != nil {
		log.Error("failed to read price history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read price history"))
		return
	}

	log.Info("price history read",
		slog.String("product_uid", productUID),
		slog.String("market_uid", marketUID),
		slog.Int("count", len(subs)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(subs),
		"history":    subs,
	}))
}
