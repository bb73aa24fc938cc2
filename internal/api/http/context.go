package http

import (
	"context"

	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/security"
	"cheque-ledger-backend/internal/service"
)

type contextKey string

const claimsKey contextKey = "claims"

func withClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the authenticated session, or nil on public routes.
func ClaimsFromContext(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(claimsKey).(*security.UserClaims)
	return claims
}

func RequestIDFromContext(ctx context.Context) string {
	return logger.RequestID(ctx)
}

func actorFromContext(ctx context.Context) service.Actor {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{UserID: claims.UserID, Role: claims.Role}
}
