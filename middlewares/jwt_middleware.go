package middlewares

import (
	"context"
	"net/http"
	"strings"

	"impactplanner/utils"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carry the acting username and the owner scope (a user or
// organization id). Every entity read or written by a request is scoped to
// OwnerID; a token without one falls back to the username as its own scope.
type Claims struct {
	Username string `json:"username"`
	OwnerID  string `json:"owner_id"`
	jwt.RegisteredClaims
}

type contextKey string

const (
	UserContextKey  contextKey = "user"
	OwnerContextKey contextKey = "owner"
)

func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.HandleMessageResponse(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				utils.HandleMessageResponse(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})

			if err != nil {
				utils.HandleMessageResponse(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(*Claims)
			if !ok || !token.Valid {
				utils.HandleMessageResponse(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			ownerID := claims.OwnerID
			if ownerID == "" {
				ownerID = claims.Username
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims.Username)
			ctx = context.WithValue(ctx, OwnerContextKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUsernameFromContext(ctx context.Context) string {
	if username, ok := ctx.Value(UserContextKey).(string); ok {
		return username
	}
	return ""
}

func GetOwnerFromContext(ctx context.Context) string {
	if ownerID, ok := ctx.Value(OwnerContextKey).(string); ok {
		return ownerID
	}
	return ""
}
