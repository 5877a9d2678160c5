// Package removeproduct реализует HTTP-обработчик удаления продукта с рынка.
package removeproduct

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

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики разрыва связи рынка и продукта.
type Service interface {
	RemoveProduct(ctx context.Context, actorUID string, actorRole models.Role, marketUID, productUID string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.market.removeproduct"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	marketUID := chi.URLParam(r, "uid")
	productUID := chi.URLParam(r, "productUid")
	if marketUID == "" || productUID == "" {
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
	roleStr, _ := r.Context().Value(middlewarectx.Role).(string)
	role, err := models.ParseRole(roleStr)
	if err != nil {
		log.Error("invalid role in context", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.RemoveProduct(r.Context(), useruid, role, marketUID, productUID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("market not found", slog.String("uid", marketUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("market not found"))
			return
		}
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("actor is not manager", slog.String("uid", marketUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
			return
		}
		log.Error("failed to remove product from market", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove product from market"))
		return
	}

	log.Info("product removed from market",
		slog.String("market_uid", marketUID), slog.String("product_uid", productUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"market_uid":  marketUID,
		"product_uid": productUID,
	}))
}
