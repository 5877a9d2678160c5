// Package addproduct реализует HTTP-обработчик добавления продукта на рынок.
//
// Повторное добавление того же продукта не является ошибкой: множество
// связей рынок-продукт не содержит дубликатов.
package addproduct

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/gambiamarkets/price-tracker/internal/http/middlewarectx"
	"github.com/gambiamarkets/price-tracker/internal/http/response"
	"github.com/gambiamarkets/price-tracker/internal/lib/sl"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// Handler обрабатывает запросы добавления продукта на рынок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики связывания рынка и продукта.
type Service interface {
	AddProduct(ctx context.Context, actorUID string, actorRole models.Role, marketUID, productUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.market.addproduct"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	marketUID := chi.URLParam(r, "uid")
	if marketUID == "" {
		log.Error("missing uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing uid in url"))
		return
	}

	var req models.DummyMarketProduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
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

	if err := h.service.AddProduct(r.Context(), useruid, role, marketUID, req.ProductUID); err != nil {
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
		log.Error("failed to add product to market", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add product to market"))
		return
	}

	log.Info("product added to market",
		slog.String("market_uid", marketUID), slog.String("product_uid", req.ProductUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"market_uid":  marketUID,
		"product_uid": req.ProductUID,
	}))
}
