// Package pricetracker предоставляет маршруты для основного приложения.
package pricetracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/gambiamarkets/price-tracker/internal/http/handlers/auth/login"
	"github.com/gambiamarkets/price-tracker/internal/http/handlers/auth/me"
	"github.com/gambiamarkets/price-tracker/internal/http/handlers/auth/register"
	"github.com/gambiamarkets/price-tracker/internal/http/handlers/health"
	marketaddproduct "github.com/gambiamarkets/price-tracker/internal/http/handlers/market/addproduct"
	marketbycity "github.com/gambiamarkets/price-tracker/internal/http/handlers/market/bycity"
	marketbytype "github.com/gambiamarkets/price-tracker/internal/http/handlers/market/bytype"
	marketcreate "github.com/gambiamarkets/price-tracker/internal/http/handlers/market/create"
	marketlist "github.com/gambiamarkets/price-tracker/internal/http/handlers/market/list"
	marketread "github.com/gambiamarkets/price-tracker/internal/http/handlers/market/read"
	marketremove "github.com/gambiamarkets/price-tracker/internal/http/handlers/market/remove"
	marketremoveproduct "github.com/gambiamarkets/price-tracker/internal/http/handlers/market/removeproduct"
	marketupdate "github.com/gambiamarkets/price-tracker/internal/http/handlers/market/update"
	productbycategory "github.com/gambiamarkets/price-tracker/internal/http/handlers/product/bycategory"
	productcreate "github.com/gambiamarkets/price-tracker/internal/http/handlers/product/create"
	productlist "github.com/gambiamarkets/price-tracker/internal/http/handlers/product/list"
	productread "github.com/gambiamarkets/price-tracker/internal/http/handlers/product/read"
	productremove "github.com/gambiamarkets/price-tracker/internal/http/handlers/product/remove"
	productstock "github.com/gambiamarkets/price-tracker/internal/http/handlers/product/stock"
	productupdate "github.com/gambiamarkets/price-tracker/internal/http/handlers/product/update"
	subaverage "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/average"
	subbymarket "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/bymarket"
	subbyproduct "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/byproduct"
	subcreate "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/create"
	subhistory "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/history"
	sublist "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/list"
	subread "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/read"
	subreject "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/reject"
	subremove "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/remove"
	subupdate "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/update"
	subverify "github.com/gambiamarkets/price-tracker/internal/http/handlers/submission/verify"
	userchangepassword "github.com/gambiamarkets/price-tracker/internal/http/handlers/user/changepassword"
	userlist "github.com/gambiamarkets/price-tracker/internal/http/handlers/user/list"
	userremove "github.com/gambiamarkets/price-tracker/internal/http/handlers/user/remove"
	userupdate "github.com/gambiamarkets/price-tracker/internal/http/handlers/user/update"
	"github.com/gambiamarkets/price-tracker/internal/http/middlewarectx"
	"github.com/gambiamarkets/price-tracker/internal/models"
	authservice "github.com/gambiamarkets/price-tracker/internal/services/auth"
	catalogservice "github.com/gambiamarkets/price-tracker/internal/services/catalog"
	submissionservice "github.com/gambiamarkets/price-tracker/internal/services/submission"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	productService *catalogservice.ProductService,
	marketService *catalogservice.MarketService,
	submissionService *submissionservice.SubmissionService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки: авторизация и все выборки на чтение
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		r.Get("/products", productlist.New(logger, productService).ServeHTTP)
		r.Get("/products/category/{category}", productbycategory.New(logger, productService).ServeHTTP)
		r.Get("/products/{uid}", productread.New(logger, productService).ServeHTTP)

		r.Get("/markets", marketlist.New(logger, marketService).ServeHTTP)
		r.Get("/markets/city/{city}", marketbycity.New(logger, marketService).ServeHTTP)
		r.Get("/markets/type/{type}", marketbytype.New(logger, marketService).ServeHTTP)
		r.Get("/markets/{uid}", marketread.New(logger, marketService).ServeHTTP)

		r.Get("/price-submissions", sublist.New(logger, submissionService).ServeHTTP)
		r.Get("/price-submissions/product/{productUid}", subbyproduct.New(logger, submissionService).ServeHTTP)
		r.Get("/price-submissions/market/{marketUid}", subbymarket.New(logger, submissionService).ServeHTTP)
		r.Get("/price-submissions/history/{productUid}/{marketUid}", subhistory.New(logger, submissionService).ServeHTTP)
		r.Get("/price-submissions/average/{productUid}", subaverage.New(logger, submissionService).ServeHTTP)
		r.Get("/price-submissions/{uid}", subread.New(logger, submissionService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/auth/me", me.New(logger, authService).ServeHTTP)
			r.Patch("/auth/password", userchangepassword.New(logger, authService).ServeHTTP)
			r.Put("/users/{uid}", userupdate.New(logger, authService).ServeHTTP)

			r.Post("/products", productcreate.New(logger, productService).ServeHTTP)
			r.Put("/products/{uid}", productupdate.New(logger, productService).ServeHTTP)
			r.Patch("/products/{uid}/stock", productstock.New(logger, productService).ServeHTTP)
			r.Delete("/products/{uid}", productremove.New(logger, productService).ServeHTTP)

			r.Post("/markets", marketcreate.New(logger, marketService).ServeHTTP)
			r.Put("/markets/{uid}", marketupdate.New(logger, marketService).ServeHTTP)
			r.Delete("/markets/{uid}", marketremove.New(logger, marketService).ServeHTTP)
			r.Post("/markets/{uid}/products", marketaddproduct.New(logger, marketService).ServeHTTP)
			r.Delete("/markets/{uid}/products/{productUid}", marketremoveproduct.New(logger, marketService).ServeHTTP)

			r.Post("/price-submissions", subcreate.New(logger, submissionService).ServeHTTP)

			// Операции, доступные только администраторам
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))

				r.Get("/users", userlist.New(logger, authService).ServeHTTP)
				r.Delete("/users/{uid}", userremove.New(logger, authService).ServeHTTP)
				r.Patch("/price-submissions/{uid}/verify", subverify.New(logger, submissionService).ServeHTTP)
				r.Patch("/price-submissions/{uid}/reject", subreject.New(logger, submissionService).ServeHTTP)
				r.Put("/price-submissions/{uid}", subupdate.New(logger, submissionService).ServeHTTP)
				r.Delete("/price-submissions/{uid}", subremove.New(logger, submissionService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
