package core

import "errors"

// Errores del store.
var (
	ErrNotFound = errors.New("store: schema not found")

	// ErrPublicSchemaExists solo puede existir un schema público a la vez.
	ErrPublicSchemaExists = errors.New("store: a public schema already exists")

	// ErrDuplicateToken el access token ya pertenece a otro schema.
	ErrDuplicateToken = errors.New("store: access token already in use")

	// ErrMissingToken un schema no-público requiere access token no vacío.
	ErrMissingToken = errors.New("store: non-public schema requires an access token")
)

// IsNotFound verifica si el error es ausencia del registro.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
