package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/krjofficial/mern-ecomm/internal/domain/enums"
	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
	"github.com/krjofficial/mern-ecomm/internal/services/cart"
	"github.com/krjofficial/mern-ecomm/internal/services/catalog"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/cookies"
	httperrors "github.com/krjofficial/mern-ecomm/internal/transport/http/errors"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	CatalogService *catalog.Service
	CartService    *cart.Service
	Cookies        *cookies.Binder
	Logger         *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Cookies, deps.Logger)
	productHandler := handlers.NewProductHandler(deps.CatalogService, deps.Logger)
	cartHandler := handlers.NewCartHandler(deps.CartService, deps.Logger)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminMW := RequireRole(enums.RoleAdmin)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httperrors.Write(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/refresh-token", authHandler.RefreshToken)
		r.With(authMW).Get("/profile", authHandler.Profile)
		r.With(authMW).Patch("/profile", authHandler.UpdateProfile)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.With(authMW, adminMW).Get("/", productHandler.List)
		r.Get("/featured", productHandler.Featured)
		r.Get("/category/{category}", productHandler.ByCategory)
		r.Get("/recommendations", productHandler.Recommendations)
		r.With(authMW, adminMW).Post("/", productHandler.Create)
		r.With(authMW, adminMW).Patch("/{id}", productHandler.ToggleFeatured)
		r.With(authMW, adminMW).Delete("/{id}", productHandler.Delete)
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/", cartHandler.Products)
		r.Post("/", cartHandler.Add)
		r.Delete("/", cartHandler.RemoveAll)
		r.Put("/{id}", cartHandler.UpdateQuantity)
	})
}
