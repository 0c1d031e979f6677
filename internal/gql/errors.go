package gql

import (
	"errors"
	"fmt"
)

// Errores de resolución/extracción. Abortan antes de cualquier ejecución y
// se serializan tal cual hacia afuera (403 / 400).
var (
	// ErrForbidden schema ausente, deshabilitado o expirado.
	ErrForbidden = errors.New("Invalid authorization token.")

	// ErrNoQuery el request no trae query por ningún canal.
	ErrNoQuery = errors.New("No GraphQL query was supplied.")
)

// SchemaBuildError inconsistencia en el grafo de tipos o en el scope al
// compilar el schema de ejecución. No reintentable sin un fix.
type SchemaBuildError struct {
	Err error
}

func (e *SchemaBuildError) Error() string {
	return fmt.Sprintf("gql: building execution schema: %v", e.Err)
}

func (e *SchemaBuildError) Unwrap() error { return e.Err }

// GatewayExecutionError falla total del engine: ni siquiera hubo resultado
// parcial. Se traduce en un 5xx, no en un envelope con errors.
type GatewayExecutionError struct {
	Err error
}

func (e *GatewayExecutionError) Error() string {
	return "Something went wrong when processing the GraphQL query."
}

func (e *GatewayExecutionError) Unwrap() error { return e.Err }
