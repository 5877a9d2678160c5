// Package bycategory реализует HTTP-обработчик списка продуктов
// указанной категории.
package bycategory

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

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки продуктов по категории.
type Service interface {
	ListByCategory(ctx context.Context, category string) ([]*models.Product, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.bycategory"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	category := chi.URLParam(r, "category")
	if category == "" {
		log.Error("missing category in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing category in url"))
		return
	}

	products, err := h.service.ListByCategory(r.Context(), category)
	if err != nil {
		log.Error("failed to list products by category", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list products"))
		return
	}

	log.Info("products listed", slog.String("category", category), slog.Int("count", len(products)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(products),
		"products":   products,
	}))
}
