package middleware

import (
	"net/http"

	"buildmart-gateway/internal/auth"
	"buildmart-gateway/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware attaches the caller's identity when the access token
// verifies against secret. It never rejects: the catalog backend remains the
// authority on access, this only feeds logging and rate-limit buckets.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(key) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if uid, ok := claims["user_id"].(float64); ok && uid > 0 {
					r = r.WithContext(utils.SetUserID(r.Context(), uint(uid)))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
