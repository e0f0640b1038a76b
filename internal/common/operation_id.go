package common

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/ksuid"
)

type ctxKey string

const OperationIDKey string = "operationID"
const operationIDKeyCtx ctxKey = ctxKey(OperationIDKey)

// Adds a time-sortable globally unique identifier to an echo.Context if not already set
func OperationIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Get(OperationIDKey) == nil {
			oid := GenerateOperationID()
			c.Set(OperationIDKey, oid)

			ctx := withOperationID(c.Request().Context(), oid)
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

// OperationIDHandler does the same as OperationIDMiddleware for plain
// net/http handlers.
func OperationIDHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if OperationID(r.Context()) == "" {
			r = r.WithContext(withOperationID(r.Context(), GenerateOperationID()))
		}
		next.ServeHTTP(w, r)
	})
}

func GenerateOperationID() string {
	return ksuid.New().String()
}

// OperationID returns the operation id stored in ctx or an empty string.
func OperationID(ctx context.Context) string {
	if oid, ok := ctx.Value(operationIDKeyCtx).(string); ok {
		return oid
	}
	return ""
}

func withOperationID(ctx context.Context, oid string) context.Context {
	return context.WithValue(ctx, operationIDKeyCtx, oid)
}
