package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"mydiary/internal/apperr"
	"mydiary/internal/config"
	handlers "mydiary/internal/handler"
	"mydiary/internal/logger"
	"mydiary/internal/models"
	"mydiary/internal/service"
)

type Middleware func(http.Handler) http.Handler

const requestIDHeader = "X-Request-ID"

// isPublic reports whether the request may pass without a token.
func isPublic(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	return r.URL.Path == "/health" || strings.HasPrefix(r.URL.Path, "/api/auth/")
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware verifies the bearer token, resolves the principal once and
// stores it in the request context.
func AuthMiddleware(tokens service.TokenService, users service.UserService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skipping public endpoints
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			if r.Header.Get("Authorization") == "" {
				handlers.WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
				return
			}

			tokenString, ok := bearerToken(r)
			if !ok {
				handlers.WriteError(w, "Неверный формат токена", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ExtractClaims(tokenString)
			if err != nil {
				handlers.WriteError(w, "Недействительный токен", http.StatusUnauthorized)
				return
			}

			if !tokens.Validate(tokenString, claims.Subject) {
				handlers.WriteError(w, "Недействительный токен", http.StatusUnauthorized)
				return
			}

			p, err := users.ResolvePrincipal(r.Context(), claims)
			if err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					handlers.WriteError(w, "Пользователь не найден", http.StatusNotFound)
					return
				}
				logger.FromContext(r.Context()).WithError(err).Error("Не удалось определить пользователя")
				handlers.WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(models.ContextWithPrincipal(r.Context(), p)))
		})
	}
}

func CORSMiddleware(cfg *config.Config) Middleware {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware tags the request with an id and logs one entry per
// request once the handler returns.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := xid.New().String()

		w.Header().Set(requestIDHeader, requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(logger.WithRequestID(r.Context(), requestID)))

		logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"remote":     r.RemoteAddr,
		}).Info("HTTP запрос")
	})
}

// RecoverMiddleware turns a panic into a 500 response.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(r.Context()).WithFields(logrus.Fields{
					"panic": rec,
					"stack": string(debug.Stack()),
				}).Error("Паника при обработке запроса")
				handlers.WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Chain wraps h so that the last middleware runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
