// Package byproduct реализует HTTP-обработчик выборки заявок по продукту.
package byproduct

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

// Service описывает интерфейс бизнес-логики выборки заявок по продукту.
type Service interface {
	ByProduct(ctx context.Context, productUID string) ([]*models.PriceSubmission, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.byproduct"

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

	subs, err := h.service.ByProduct(r.Context(), productUID)
	if err != nil {
		log.Error("failed to list submissions by product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list submissions"))
		return
	}

	log.Info("submissions listed", slog.String("product_uid", productUID), slog.Int("count", len(subs)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":  len(subs),
		"submissions": subs,
	}))
}
