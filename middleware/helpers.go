package middleware

import (
	"context"
	"errors"

	"github.com/Dosada05/cup-simulator/services"
)

var ErrNoOperatorClaims = errors.New("operator claims not found in context")

// OperatorFromContext returns the claims stored by Authenticate.
func OperatorFromContext(ctx context.Context) (*services.OperatorClaims, error) {
	claims, ok := ctx.Value(operatorContextKey).(*services.OperatorClaims)
	if !ok || claims == nil {
		return nil, ErrNoOperatorClaims
	}
	return claims, nil
}

// WithOperator stores the verified claims in the request context.
func WithOperator(ctx context.Context, claims *services.OperatorClaims) context.Context {
	return context.WithValue(ctx, operatorContextKey, claims)
}
