package middlewarectx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gambiamarkets/price-tracker/internal/http/response"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// RequireRole возвращает middleware, пропускающий запрос только если роль
// из контекста входит в переданный набор. Роль кладет в контекст
// JWTMiddleware, поэтому RequireRole должен стоять после него.
func RequireRole(log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			raw, ok := r.Context().Value(Role).(string)
			if !ok || raw == "" {
				log.Error("role not found in context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			role, err := models.ParseRole(raw)
			if err != nil {
				log.Error("unknown role in context", slog.String("role", raw))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			names := make([]string, 0, len(roles))
			for _, allowed := range roles {
				names = append(names, string(allowed))
			}
			log.Error("insufficient role",
				slog.String("role", raw), slog.String("required", strings.Join(names, ",")))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden: requires role "+strings.Join(names, " or ")))
		})
	}
}
