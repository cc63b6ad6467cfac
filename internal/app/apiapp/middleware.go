package apiapp

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/krjofficial/mern-ecomm/internal/domain/enums"
	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/cookies"
	httperrors "github.com/krjofficial/mern-ecomm/internal/transport/http/errors"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/handlers"
)

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
}

// AuthMiddleware resolves the access-token cookie to a principal and stores it
// in the request context.
func AuthMiddleware(authService *authsvc.Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authService == nil {
				httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
					Code:    "AUTH_SERVICE_UNAVAILABLE",
					Message: "auth service is unavailable",
				})
				return
			}

			user, err := authService.Authenticate(r.Context(), cookies.AccessToken(r))
			if err != nil {
				status := handlers.WriteAuthError(w, err)
				if log != nil {
					if status >= http.StatusInternalServerError {
						log.Error("auth middleware failed", zap.Error(err))
					} else {
						log.Debug("auth middleware rejected request", zap.Error(err))
					}
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(authsvc.WithPrincipal(r.Context(), user)))
		})
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := authsvc.PrincipalFromContext(r.Context())
			if !ok {
				handlers.WriteAuthError(w, authsvc.ErrUnauthenticated)
				return
			}
			if err := authsvc.RequireRole(user, roles...); err != nil {
				handlers.WriteAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
