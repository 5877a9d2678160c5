// Package bycity реализует HTTP-обработчик списка рынков указанного города.
package bycity

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

// Service описывает интерфейс бизнес-логики выборки рынков по городу.
type Service interface {
	ListByCity(ctx context.Context, city string) ([]*models.Market, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.market.bycity"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	city := chi.URLParam(r, "city")
	if city == "" {
		log.Error("missing city in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing city in url"))
		return
	}

	markets, err := h.service.ListByCity(r.Context(), city)
	if err != nil {
		log.Error("failed to list markets by city", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list markets"))
		return
	}

	log.Info("markets listed", slog.String("city", city), slog.Int("count", len(markets)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(markets),
		"markets":    markets,
	}))
}
