package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"catalog-backend/interfaces/http/rest/handlers"
	"catalog-backend/interfaces/http/rest/middleware"
	"catalog-backend/pkg/auth"
	"catalog-backend/pkg/common"
	apperrors "catalog-backend/pkg/errors"
)

// NewRouter assembles the catalog HTTP API. Reads require authentication;
// writes additionally require the admin role.
func NewRouter(items *handlers.ItemHandler, validator *auth.JWTValidator, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, http.StatusNotFound, string(apperrors.ErrorTypeNotFound), "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, http.StatusMethodNotAllowed, string(apperrors.ErrorTypeValidation), "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Authenticate(validator, logger))

		api.Route("/items", func(ir chi.Router) {
			ir.Get("/", items.ListItems)
			ir.Get("/{itemID}", items.GetItem)

			ir.Group(func(admin chi.Router) {
				admin.Use(middleware.RequireAdmin())
				admin.Post("/", items.CreateItem)
				admin.Put("/{itemID}", items.UpdateItem)
				admin.Patch("/{itemID}", items.UpdateItem)
				admin.Delete("/{itemID}", items.DeleteItem)
				admin.Post("/{itemID}/image", items.AttachImage)
			})
		})
	})

	return r
}
