// Package content describe la estructura de contenido que el gateway puede
// exponer vía GraphQL: qué tipos existen, sus campos, y cómo se resuelven
// los datos. La plataforma de contenido es un colaborador externo; acá solo
// viven las interfaces y un provider estático para wiring y tests.
package content

import (
	"context"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Kinds de campo soportados; se mapean a scalars GraphQL.
const (
	FieldString   = "string"
	FieldInt      = "int"
	FieldFloat    = "float"
	FieldBoolean  = "boolean"
	FieldID       = "id"
	FieldDateTime = "datetime"
)

// ContentField un campo de un tipo de contenido.
type ContentField struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Required bool   `yaml:"required"`
}

// ContentType un tipo de contenido consultable.
type ContentType struct {
	// Name en minúsculas; es el nombre de componente que usan los scopes.
	Name   string         `yaml:"name"`
	Fields []ContentField `yaml:"fields"`

	// Mutable si el tipo admite mutations (save/delete) además de queries.
	Mutable bool `yaml:"mutable"`
}

// TypeProvider enumera los tipos de contenido vigentes.
type TypeProvider interface {
	// Types retorna el grafo completo de tipos, sin filtrar por scope.
	Types() []ContentType

	// Version fingerprint de la estructura; cambia cuando cambian los
	// tipos. Entra en la clave de cache de schemas compilados.
	Version() uint64
}

// Resolver obtiene los datos que satisfacen un campo. Colaborador externo:
// el gateway no sabe de dónde sale el contenido.
type Resolver interface {
	// ResolveQuery resuelve el root query de un tipo. id vacío lista todo.
	ResolveQuery(ctx context.Context, typeName, id string) (interface{}, error)

	// ResolveMutation aplica una mutation sobre un tipo.
	ResolveMutation(ctx context.Context, typeName, action string, input map[string]interface{}) (interface{}, error)
}

// Validate chequea consistencia del grafo de tipos: nombres únicos y kinds
// conocidos. Un grafo inconsistente hace fallar el build del schema.
func Validate(ts []ContentType) error {
	seen := make(map[string]struct{}, len(ts))
	for _, t := range ts {
		if t.Name == "" {
			return fmt.Errorf("content: type with empty name")
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("content: duplicate type %q", t.Name)
		}
		seen[t.Name] = struct{}{}
		if len(t.Fields) == 0 {
			return fmt.Errorf("content: type %q has no fields", t.Name)
		}
		fields := make(map[string]struct{}, len(t.Fields))
		for _, f := range t.Fields {
			if _, dup := fields[f.Name]; dup {
				return fmt.Errorf("content: duplicate field %q on type %q", f.Name, t.Name)
			}
			fields[f.Name] = struct{}{}
			switch f.Kind {
			case FieldString, FieldInt, FieldFloat, FieldBoolean, FieldID, FieldDateTime:
			default:
				return fmt.Errorf("content: unknown field kind %q on %s.%s", f.Kind, t.Name, f.Name)
			}
		}
	}
	return nil
}

// Fingerprint calcula la versión de estructura de un set de tipos.
// Estable ante reordenamientos del slice.
func Fingerprint(ts []ContentType) uint64 {
	entries := make([]string, 0, len(ts))
	for _, t := range ts {
		for _, f := range t.Fields {
			entries = append(entries, fmt.Sprintf("%s.%s:%s:%t:%t", t.Name, f.Name, f.Kind, f.Required, t.Mutable))
		}
	}
	sort.Strings(entries)
	h := xxhash.New()
	for _, e := range entries {
		_, _ = h.WriteString(e)
		_, _ = h.WriteString("\n")
	}
	return h.Sum64()
}
