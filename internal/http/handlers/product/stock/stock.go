// Package stock реализует HTTP-обработчик изменения остатка продукта.
//
// Количество может быть отрицательным, итоговый остаток не опускается
// ниже нуля. Изменять остаток может создатель продукта или администратор.
package stock

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

// Handler обрабатывает запросы изменения остатка.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения остатка продукта.
type Service interface {
	AdjustStock(ctx context.Context, actorUID string, actorRole models.Role, uid string, quantity int) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить остаток продукта
// @Description Добавляет quantity к остатку продукта. Возвращает новое значение остатка.
// @Tags Products
// @Accept  json
// @Produce  json
// @Param uid path string true "UID продукта"
// @Param request body models.DummyStockAdjustment true "Изменение остатка"
// @Success 200 {object} map[string]any "Новый остаток"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Продукт не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /products/{uid}/stock [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.stock"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		log.Error("missing uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing uid in url"))
		return
	}

	var req models.DummyStockAdjustment
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

	newStock, err := h.service.AdjustStock(r.Context(), useruid, role, uid, req.Quantity)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("product not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
			return
		}
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("actor is not owner", slog.String("uid", uid))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
			return
		}
		log.Error("failed to adjust stock", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not adjust stock"))
		return
	}

	log.Info("stock adjusted", slog.String("uid", uid), slog.Int("stock", newStock))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"stock": newStock,
	}))
}
