// Package list реализует HTTP-обработчик списка продуктов с фильтрами
// по категории, доступности и диапазону цены.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

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

// Service описывает интерфейс бизнес-логики списка продуктов.
type Service interface {
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список продуктов
// @Description Возвращает продукты каталога с фильтрами category, is_available, min_price, max_price и пагинацией.
// @Tags Products
// @Produce  json
// @Param category query string false "Категория продукта"
// @Param is_available query bool false "Только доступные"
// @Param min_price query number false "Минимальная справочная цена"
// @Param max_price query number false "Максимальная справочная цена"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список продуктов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.ProductFilter{Limit: 10}
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}
	if v := q.Get("category"); v != "" {
		filter.Category = &v
	}
	if v, err := strconv.ParseBool(q.Get("is_available")); err == nil {
		filter.IsAvailable = &v
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		filter.MaxPrice = &v
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list products"))
		return
	}

	log.Info("products listed", slog.Int("count", len(products)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(products),
		"products":   products,
	}))
}
