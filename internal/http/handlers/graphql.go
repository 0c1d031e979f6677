// Package handlers implementa los endpoints HTTP del gateway.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/gqlgate/internal/gql"
	httpx "github.com/dropDatabas3/gqlgate/internal/http"
)

const maxBodyBytes = 1 << 20 // 1MB

type ctxKey int

const activeSchemaKey ctxKey = iota

// WithActiveSchema designa el schema activo del request (lo setea una capa
// de autenticación previa, si existe).
func WithActiveSchema(ctx context.Context, f gql.ActiveSchemaFunc) context.Context {
	return context.WithValue(ctx, activeSchemaKey, f)
}

func activeSchemaFrom(ctx context.Context) gql.ActiveSchemaFunc {
	f, _ := ctx.Value(activeSchemaKey).(gql.ActiveSchemaFunc)
	return f
}

// GraphQL es el entry point del gateway: adapta el request HTTP a la forma
// transport-agnóstica del core y serializa el envelope de vuelta.
type GraphQL struct {
	Svc *gql.Service
	Log *zap.Logger
}

func (h *GraphQL) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httpx.WriteGQLError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
		httpx.ObserveRequest(http.StatusRequestEntityTooLarge, time.Since(start))
		return
	}

	rc := &gql.RequestContext{
		Method:        r.Method,
		ContentType:   r.Header.Get("Content-Type"),
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
		QueryParams:   r.URL.Query(),
		ActiveSchema:  activeSchemaFrom(r.Context()),
	}

	resp, err := h.Svc.Handle(r.Context(), rc)
	status := http.StatusOK

	switch {
	case err == nil:
		httpx.WriteJSON(w, status, resp)

	case errors.Is(err, gql.ErrForbidden):
		status = http.StatusForbidden
		httpx.WriteGQLError(w, status, err.Error())

	case errors.Is(err, gql.ErrNoQuery):
		status = http.StatusBadRequest
		httpx.WriteGQLError(w, status, err.Error())

	default:
		// SchemaBuildError / GatewayExecutionError / fallas internas:
		// detalle al log, mensaje genérico hacia afuera.
		status = http.StatusInternalServerError
		h.Log.Error("graphql pipeline failed", zap.Error(err))
		httpx.WriteGQLError(w, status, "Something went wrong when processing the GraphQL query.")
	}

	httpx.ObserveRequest(status, time.Since(start))
}
