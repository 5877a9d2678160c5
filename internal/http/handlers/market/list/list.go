// Package list реализует HTTP-обработчик списка рынков с фильтрами
// по городу, штату, типу и активности.
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

// Service описывает интерфейс бизнес-логики списка рынков.
type Service interface {
	List(ctx context.Context, filter models.MarketFilter) ([]*models.Market, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.market.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.MarketFilter{Limit: 10}
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}
	if v := q.Get("city"); v != "" {
		filter.City = &v
	}
	if v := q.Get("state"); v != "" {
		filter.State = &v
	}
	if v := q.Get("type"); v != "" {
		filter.Type = &v
	}
	if v, err := strconv.ParseBool(q.Get("is_active")); err == nil {
		filter.IsActive = &v
	}

	markets, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list markets", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list markets"))
		return
	}

	log.Info("markets listed", slog.Int("count", len(markets)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(markets),
		"markets":    markets,
	}))
}
