package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dropDatabas3/gqlgate/internal/domain/types"
	"github.com/dropDatabas3/gqlgate/internal/security/token"
	"github.com/dropDatabas3/gqlgate/internal/store/core"
)

// accessTokenBytes entropía de tokens generados por el sistema.
const accessTokenBytes = 32

// memoryStore implementa SchemaStore con un map en memoria.
// Útil para desarrollo y testing. Las lecturas devuelven copias, así un
// caller nunca observa un registro mutado a medias por un save concurrente.
type memoryStore struct {
	mu      sync.RWMutex
	byID    map[int64]*types.Schema
	byToken map[string]int64
	nextID  int64
}

// NewMemory crea un SchemaStore en memoria, vacío.
func NewMemory() core.SchemaStore {
	return &memoryStore{
		byID:    make(map[int64]*types.Schema),
		byToken: make(map[string]int64),
		nextID:  1,
	}
}

func clone(s *types.Schema) *types.Schema {
	cp := *s
	if s.ExpiryDate != nil {
		t := *s.ExpiryDate
		cp.ExpiryDate = &t
	}
	return &cp
}

func (m *memoryStore) GetSchemaByToken(_ context.Context, accessToken string) (*types.Schema, error) {
	if accessToken == "" {
		return nil, core.ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byToken[accessToken]
	if !ok {
		return nil, core.ErrNotFound
	}
	return clone(m.byID[id]), nil
}

func (m *memoryStore) GetSchemaByID(_ context.Context, id int64) (*types.Schema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return clone(s), nil
}

func (m *memoryStore) GetSchemaByUID(_ context.Context, uid string) (*types.Schema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.byID {
		if s.UID == uid {
			return clone(s), nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memoryStore) GetPublicSchema(_ context.Context) (*types.Schema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.byID {
		if s.IsPublic {
			return clone(s), nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memoryStore) ListSchemas(_ context.Context) ([]*types.Schema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.Schema, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, clone(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) SaveSchema(_ context.Context, s *types.Schema) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	isNew := s.ID == 0
	if isNew {
		if !s.IsPublic && s.AccessToken == "" {
			t, err := token.GenerateAccessToken(accessTokenBytes)
			if err != nil {
				return err
			}
			s.AccessToken = t
		}
		s.ID = m.nextID
		s.UID = uuid.NewString()
	} else {
		prev, ok := m.byID[s.ID]
		if !ok {
			return core.ErrNotFound
		}
		// id/uid inmutables después de la creación.
		s.UID = prev.UID
	}

	if !s.IsPublic && s.AccessToken == "" {
		if isNew {
			s.ID, s.UID = 0, ""
		}
		return core.ErrMissingToken
	}

	for id, other := range m.byID {
		if id == s.ID {
			continue
		}
		if s.IsPublic && other.IsPublic {
			if isNew {
				s.ID, s.UID = 0, ""
			}
			return core.ErrPublicSchemaExists
		}
		if s.AccessToken != "" && other.AccessToken == s.AccessToken {
			if isNew {
				s.ID, s.UID = 0, ""
			}
			return core.ErrDuplicateToken
		}
	}

	if isNew {
		m.nextID++
	} else if prevTok := m.byID[s.ID].AccessToken; prevTok != s.AccessToken {
		delete(m.byToken, prevTok)
	}

	m.byID[s.ID] = clone(s)
	if s.AccessToken != "" {
		m.byToken[s.AccessToken] = s.ID
	}
	return nil
}

func (m *memoryStore) DeleteSchemaByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	delete(m.byToken, s.AccessToken)
	delete(m.byID, id)
	return nil
}

func (m *memoryStore) Ping(context.Context) error { return nil }
func (m *memoryStore) Close() error               { return nil }
