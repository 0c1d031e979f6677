package types

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Acciones soportadas por un permiso de scope.
const (
	ActionRead  = "read"
	ActionWrite = "write"
	// ActionAny comodín: cualquier acción sobre el componente.
	ActionAny = "*"
)

// Reglas de nombre de componente:
// - Minúsculas, empieza y termina en [a-z0-9].
// - Puede incluir [a-z0-9_.-] en el medio ("." separa tipo.campo).
// - Largo 1..64.
var componentRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9_\.-]{0,62}[a-z0-9])?$`)

// Permission otorga una acción sobre un componente del schema GraphQL.
// Componente es un tipo ("article") o un campo calificado ("article.title").
// Forma canónica: "component:action".
type Permission struct {
	Component string
	Action    string
}

// String retorna la forma canónica "component:action".
func (p Permission) String() string { return p.Component + ":" + p.Action }

// ParsePermission parsea la forma canónica. Acción ausente implica read.
func ParsePermission(s string) (Permission, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	comp, action := s, ActionRead
	if i := strings.LastIndex(s, ":"); i >= 0 {
		comp, action = s[:i], s[i+1:]
	}
	if !componentRe.MatchString(comp) {
		return Permission{}, fmt.Errorf("scope: invalid component %q", comp)
	}
	switch action {
	case ActionRead, ActionWrite, ActionAny:
	default:
		return Permission{}, fmt.Errorf("scope: invalid action %q", action)
	}
	return Permission{Component: comp, Action: action}, nil
}

// Scope es el conjunto de permisos de un schema. Es un set: sin orden y sin
// duplicados. El valor cero es el scope vacío (nada permitido).
type Scope struct {
	perms map[Permission]struct{}
}

// NewScope construye un Scope a partir de entradas canónicas "component:action".
// Entradas inválidas producen error; duplicados se colapsan.
func NewScope(entries ...string) (Scope, error) {
	s := Scope{perms: make(map[Permission]struct{}, len(entries))}
	for _, e := range entries {
		p, err := ParsePermission(e)
		if err != nil {
			return Scope{}, err
		}
		s.perms[p] = struct{}{}
	}
	return s, nil
}

// MustScope como NewScope pero entra en pánico ante entradas inválidas.
// Para fixtures y seeds donde las entradas son literales.
func MustScope(entries ...string) Scope {
	s, err := NewScope(entries...)
	if err != nil {
		panic(err)
	}
	return s
}

// Allows retorna true si el scope permite la acción sobre el componente.
// Un permiso sobre "tipo" cubre todos sus campos "tipo.*"; la acción "*"
// cubre read y write.
func (s Scope) Allows(component, action string) bool {
	if s.perms == nil {
		return false
	}
	candidates := []Permission{
		{Component: component, Action: action},
		{Component: component, Action: ActionAny},
	}
	// Un permiso a nivel de tipo cubre el campo calificado.
	if i := strings.Index(component, "."); i > 0 {
		parent := component[:i]
		candidates = append(candidates,
			Permission{Component: parent, Action: action},
			Permission{Component: parent, Action: ActionAny},
		)
	}
	for _, c := range candidates {
		if _, ok := s.perms[c]; ok {
			return true
		}
	}
	return false
}

// IsEmpty retorna true si el scope no otorga ningún permiso.
func (s Scope) IsEmpty() bool { return len(s.perms) == 0 }

// Len cantidad de permisos únicos.
func (s Scope) Len() int { return len(s.perms) }

// Entries retorna las entradas canónicas ordenadas. Orden estable para
// serialización y fingerprint.
func (s Scope) Entries() []string {
	out := make([]string, 0, len(s.perms))
	for p := range s.perms {
		out = append(out, p.String())
	}
	sort.Strings(out)
	return out
}

// Components retorna los nombres de componentes referenciados (sin acción),
// ordenados y sin duplicados. Lo usa el builder para detectar permisos que
// apuntan a componentes inexistentes.
func (s Scope) Components() []string {
	seen := make(map[string]struct{}, len(s.perms))
	for p := range s.perms {
		seen[p.Component] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Fingerprint identidad estable del scope para claves de cache.
// Dos scopes con el mismo set de permisos comparten fingerprint.
func (s Scope) Fingerprint() uint64 {
	h := xxhash.New()
	for _, e := range s.Entries() {
		_, _ = h.WriteString(e)
		_, _ = h.WriteString("\n")
	}
	return h.Sum64()
}

// MarshalJSON serializa como lista canónica ordenada.
func (s Scope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Entries())
}

// UnmarshalJSON acepta una lista de entradas canónicas.
func (s *Scope) UnmarshalJSON(b []byte) error {
	var entries []string
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	parsed, err := NewScope(entries...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
