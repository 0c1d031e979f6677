// Package types define tipos de dominio compartidos entre paquetes.
package types

import (
	"strings"
	"time"
)

// Schema es el registro de autorización que gobierna un request GraphQL:
// un token secreto asociado a un alcance de permisos y una ventana de validez.
// El schema público (IsPublic) es el único que puede resolverse sin token.
type Schema struct {
	// ID identificador estable, asignado al crear. No cambia nunca.
	ID int64 `json:"id"`

	// UID identificador global para referencias externas. No se reutiliza.
	UID string `json:"uid"`

	// Name etiqueta legible; puede ser vacía para el schema público.
	Name string `json:"name"`

	// AccessToken secreto opaco, único entre todos los schemas.
	// Vacío solo para el schema público.
	AccessToken string `json:"accessToken"`

	// Scope permisos GraphQL que otorga este schema.
	Scope Scope `json:"scope"`

	// Enabled un schema deshabilitado nunca es ejecutable.
	Enabled bool `json:"enabled"`

	// ExpiryDate opcional; alcanzada la fecha el schema deja de ser válido
	// sin importar Enabled.
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`

	// IsPublic marca el único schema usable sin token.
	IsPublic bool `json:"isPublic"`
}

// IsExpired retorna true si el schema tiene fecha de expiración y ya pasó.
// La comparación usa el instante recibido (wall-clock del chequeo, no del request).
func (s *Schema) IsExpired(now time.Time) bool {
	return s.ExpiryDate != nil && !s.ExpiryDate.After(now)
}

// CanExecute retorna true si el schema puede usarse para ejecutar queries ahora.
func (s *Schema) CanExecute(now time.Time) bool {
	return s != nil && s.Enabled && !s.IsExpired(now)
}

// DisplayName nombre para UIs/logs; el schema público no suele tener Name.
func (s *Schema) DisplayName() string {
	if s.IsPublic && strings.TrimSpace(s.Name) == "" {
		return "Public Schema"
	}
	return s.Name
}
