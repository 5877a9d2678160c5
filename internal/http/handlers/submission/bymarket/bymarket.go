// Package bymarket реализует HTTP-обработчик выборки заявок по рынку.
package bymarket

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

// Service описывает интерфейс бизнес-логики выборки заявок по рынку.
type Service interface {
	ByMarket(ctx context.Context, marketUID string) ([]*models.PriceSubmission, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.submission.bymarket"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	marketUID := chi.URLParam(r, "marketUid")
	if marketUID == "" {
		log.Error("missing market uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing market uid in url"))
		return
	}

	subs, err := h.service.ByMarket(r.Context(), marketUID)
	if err != nil {
		log.Error("failed to list submissions by market", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list submissions"))
		return
	}

	log.Info("submissions listed", slog.String("market_uid", marketUID), slog.Int("count", len(subs)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":  len(subs),
		"submissions": subs,
	}))
}
