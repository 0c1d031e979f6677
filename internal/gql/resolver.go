package gql

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/gqlgate/internal/domain/types"
	"github.com/dropDatabas3/gqlgate/internal/security/token"
	"github.com/dropDatabas3/gqlgate/internal/store/core"
)

// SchemaResolver determina el schema de autorización aplicable a un request
// y lo valida. La precedencia es estricta y el primer paso que aplica gana:
//
//  1. Header bearer presente: lookup por token exacto. El resultado es
//     terminal: un token que no matchea NO cae a los pasos siguientes.
//  2. Schema activo designado por el contexto (capa de auth previa).
//  3. Schema público.
//
// La validación (enabled, no expirado) corre siempre sobre lo seleccionado.
type SchemaResolver struct {
	store core.SchemaStore
	log   *zap.Logger

	// now inyectable para tests de expiración.
	now func() time.Time
}

func NewSchemaResolver(st core.SchemaStore, log *zap.Logger) *SchemaResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &SchemaResolver{store: st, log: log, now: time.Now}
}

// Resolve selecciona y valida el schema del request. Retorna ErrForbidden
// cuando no hay schema utilizable; cualquier otro error es interno.
func (r *SchemaResolver) Resolve(ctx context.Context, rc *RequestContext) (*types.Schema, error) {
	sc, err := r.locate(ctx, rc)
	if err != nil {
		return nil, err
	}

	// Validación incondicional, pase lo que pase arriba.
	if !sc.CanExecute(r.now()) {
		r.log.Debug("schema rejected",
			zap.Int64("schema_id", sc.ID),
			zap.Bool("enabled", sc.Enabled),
			zap.Bool("expired", sc.IsExpired(r.now())),
		)
		return nil, ErrForbidden
	}
	return sc, nil
}

func (r *SchemaResolver) locate(ctx context.Context, rc *RequestContext) (*types.Schema, error) {
	if tok, ok := BearerToken(rc.Authorization); ok {
		sc, err := r.store.GetSchemaByToken(ctx, tok)
		if core.IsNotFound(err) {
			// Token desconocido: no hay fallback, el intento de match es
			// terminal.
			r.log.Debug("bearer token matched no schema", zap.String("token_digest", token.Digest(tok)))
			return nil, ErrForbidden
		}
		if err != nil {
			return nil, fmt.Errorf("gql: schema lookup by token: %w", err)
		}
		return sc, nil
	}

	if rc.ActiveSchema != nil {
		sc, err := rc.ActiveSchema(ctx)
		if err == nil && sc != nil {
			return sc, nil
		}
		if err != nil {
			// Silencio deliberado: un error interno resolviendo el schema
			// activo cae al público, nunca llega al caller.
			r.log.Debug("active schema lookup failed, falling back to public", zap.Error(err))
		}
	}

	sc, err := r.store.GetPublicSchema(ctx)
	if core.IsNotFound(err) {
		// Sin schema público configurado no hay acceso anónimo.
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("gql: public schema lookup: %w", err)
	}
	return sc, nil
}
