package content

import (
	"context"
	"fmt"
	"sync"
)

// MemResolver implementa Resolver sobre entradas en memoria, por tipo.
// Sirve para desarrollo local y tests; en producción la plataforma de
// contenido provee su propio Resolver.
type MemResolver struct {
	mu sync.RWMutex
	// entries tipo → id → registro
	entries map[string]map[string]map[string]interface{}
}

func NewMemResolver() *MemResolver {
	return &MemResolver{entries: make(map[string]map[string]map[string]interface{})}
}

// Put agrega o reemplaza un registro. El registro debe tener key "id".
func (r *MemResolver) Put(typeName string, record map[string]interface{}) {
	id, _ := record["id"].(string)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[typeName] == nil {
		r.entries[typeName] = make(map[string]map[string]interface{})
	}
	r.entries[typeName][id] = record
}

func (r *MemResolver) ResolveQuery(_ context.Context, typeName, id string) (interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byID := r.entries[typeName]
	if id != "" {
		rec, ok := byID[id]
		if !ok {
			return nil, nil
		}
		return []interface{}{rec}, nil
	}
	out := make([]interface{}, 0, len(byID))
	for _, rec := range byID {
		out = append(out, rec)
	}
	return out, nil
}

func (r *MemResolver) ResolveMutation(_ context.Context, typeName, action string, input map[string]interface{}) (interface{}, error) {
	switch action {
	case "save":
		r.Put(typeName, input)
		return input, nil
	case "delete":
		id, _ := input["id"].(string)
		r.mu.Lock()
		defer r.mu.Unlock()
		if byID := r.entries[typeName]; byID != nil {
			delete(byID, id)
		}
		return map[string]interface{}{"id": id}, nil
	default:
		return nil, fmt.Errorf("content: unknown mutation action %q", action)
	}
}
