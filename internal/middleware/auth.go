package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"volunteerHub/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const UserIdKey contextKey = "user_id"

// Auth проверяет сессионный токен платформы (HS256, claim user_id) и кладёт
// идентификатор пользователя в контекст. Без валидного токена запрос
// отклоняется.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := parseToken(r, secret)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"error":      "UNAUTHENTICATED",
					"message":    "требуется действительный сессионный токен",
					"request_id": GetRequestID(r.Context()),
				})
				return
			}

			ctx := context.WithValue(r.Context(), UserIdKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth кладёт идентификатор в контекст, если токен есть и валиден,
// иначе пропускает запрос анонимно. Для чтений, где личность лишь обогащает
// ответ (расстояния, свой статус волонтёра).
func OptionalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := parseToken(r, secret); ok {
				ctx := context.WithValue(r.Context(), UserIdKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseToken(r *http.Request, secret string) (uuid.UUID, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return uuid.Nil, false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		logger.Warn("HTTP: Невалидный токен", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		return uuid.Nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false
	}

	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(raw)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, false
	}

	return userID, true
}

// GetUserID достаёт идентичность из контекста; uuid.Nil означает анонима
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIdKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
