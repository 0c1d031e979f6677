// Package core define el contrato de persistencia de los schemas de
// autorización GraphQL, compartido por los drivers.
//
// Garantía de concurrencia: lecturas concurrentes durante un save/delete
// observan el estado previo o el posterior, nunca un registro a medias.
package core

import (
	"context"

	"github.com/dropDatabas3/gqlgate/internal/domain/types"
)

// SchemaStore define las operaciones de persistencia de schemas.
type SchemaStore interface {
	// GetSchemaByToken busca por igualdad exacta del access token.
	// Retorna ErrNotFound si no existe.
	GetSchemaByToken(ctx context.Context, accessToken string) (*types.Schema, error)

	// GetSchemaByID busca por id. Retorna ErrNotFound si no existe.
	GetSchemaByID(ctx context.Context, id int64) (*types.Schema, error)

	// GetSchemaByUID busca por uid. Retorna ErrNotFound si no existe.
	GetSchemaByUID(ctx context.Context, uid string) (*types.Schema, error)

	// GetPublicSchema retorna el schema público, o ErrNotFound si no hay
	// ninguno configurado.
	GetPublicSchema(ctx context.Context) (*types.Schema, error)

	// ListSchemas enumera todos los schemas ordenados por id.
	ListSchemas(ctx context.Context) ([]*types.Schema, error)

	// SaveSchema crea o actualiza. En creación asigna id/uid y, si el schema
	// no es público y no trae token, genera uno aleatorio. id/uid nunca
	// cambian en updates. Retorna ErrPublicSchemaExists si se intenta
	// guardar un segundo schema público, y ErrDuplicateToken si el token ya
	// pertenece a otro schema.
	SaveSchema(ctx context.Context, s *types.Schema) error

	// DeleteSchemaByID elimina por id. Retorna ErrNotFound si no existe.
	DeleteSchemaByID(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	Close() error
}
