package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/renanjardim/back-end-rota-certa/internal/config"
	"github.com/renanjardim/back-end-rota-certa/pkg/dto"
	"github.com/renanjardim/back-end-rota-certa/pkg/logger"
)

// WithAuth validates the bearer token on every protected route and exposes
// the authenticated user through the User-ID header for downstream handlers.
func WithAuth(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, ignore := range cfg.AuthDisabledURLs {
				if r.URL.Path == ignore {
					next.ServeHTTP(w, r)
					return
				}
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Log.Warn("unauthorized request", logger.String("url", r.RequestURI))
				unauthorized(w)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			var claims jwt.StandardClaims
			_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.PrivateKey), nil
			})
			if err != nil {
				logger.Log.Warn("unauthorized request", logger.String("url", r.RequestURI), logger.Error(err))
				unauthorized(w)
				return
			}

			r.Header.Set("User-ID", claims.Subject)

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	err := json.NewEncoder(w).Encode(dto.Message{Message: "Autenticação falhou: credenciais não fornecidas ou inválidas."})
	if err != nil {
		logger.Log.Error("error while encoding unauthorized response", logger.Error(err))
	}
}
