// Package store abre el SchemaStore según configuración y re-exporta el
// contrato de core para los consumidores.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/gqlgate/internal/store/core"
	"github.com/dropDatabas3/gqlgate/internal/store/pg"
)

// Aliases de conveniencia: los consumidores importan solo este paquete.
type SchemaStore = core.SchemaStore

var (
	ErrNotFound           = core.ErrNotFound
	ErrPublicSchemaExists = core.ErrPublicSchemaExists
	ErrDuplicateToken     = core.ErrDuplicateToken
	ErrMissingToken       = core.ErrMissingToken
)

// IsNotFound verifica si el error es ausencia del registro.
func IsNotFound(err error) bool { return core.IsNotFound(err) }

// Config configuración del store.
type Config struct {
	Driver   string // "memory" | "postgres"
	DSN      string
	Postgres pg.Config
}

// Open abre el driver configurado.
func Open(ctx context.Context, cfg Config) (core.SchemaStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "pg", "postgresql":
		return pg.New(ctx, cfg.DSN, cfg.Postgres)
	case "memory", "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Driver)
	}
}
