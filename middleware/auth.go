package middleware

import (
	"net/http"
	"strings"

	"github.com/Dosada05/cup-simulator/services"
)

type contextKey string

const operatorContextKey contextKey = "operator"

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	ParseToken(tokenString string) (*services.OperatorClaims, error)
}

// Authenticate rejects requests without a valid operator bearer token.
func Authenticate(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			claims, err := parser.ParseToken(tokenString)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), claims)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="cupsim"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}` + "\n"))
}
