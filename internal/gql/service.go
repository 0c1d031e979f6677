// Package gql implementa el núcleo del gateway GraphQL: resolución del
// schema de autorización, extracción de la query, compilación del schema de
// ejecución recortado al scope, y ejecución con envelope uniforme.
package gql

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/gqlgate/internal/gql/schemagen"
	"github.com/dropDatabas3/gqlgate/internal/store/core"
)

// Service encadena resolver → builder/cache → executor. Es el contrato que
// consume el entry point HTTP; no sabe nada de transporte.
type Service struct {
	resolver *SchemaResolver
	schemas  *schemagen.Cache
	devMode  bool
	log      *zap.Logger
}

// NewService arma el pipeline del gateway.
func NewService(st core.SchemaStore, schemas *schemagen.Cache, devMode bool, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		resolver: NewSchemaResolver(st, log),
		schemas:  schemas,
		devMode:  devMode,
		log:      log,
	}
}

// SchemaCache expone el cache de schemas compilados (para métricas y para
// purgarlo tras escrituras administrativas).
func (s *Service) SchemaCache() *schemagen.Cache { return s.schemas }

// Handle corre el pipeline completo para un request. Errores posibles:
// ErrForbidden, ErrNoQuery, *SchemaBuildError, *GatewayExecutionError.
// La validación de credencial corre antes que la de query: si ambas
// fallarían, gana Forbidden.
func (s *Service) Handle(ctx context.Context, rc *RequestContext) (*Response, error) {
	schema, err := s.resolver.Resolve(ctx, rc)
	if err != nil {
		return nil, err
	}

	params, err := ExtractParams(rc)
	if err != nil {
		return nil, err
	}

	execSchema, err := s.schemas.Get(ctx, schema.Scope, s.devMode)
	if err != nil {
		return nil, &SchemaBuildError{Err: err}
	}

	resp, err := Execute(ctx, execSchema, params)
	if err != nil {
		return nil, err
	}

	if resp.HasErrors() {
		s.log.Debug("query finished with errors",
			zap.Int64("schema_id", schema.ID),
			zap.Int("error_count", len(resp.Errors)),
		)
	}
	return resp, nil
}
