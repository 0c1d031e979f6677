package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dropDatabas3/gqlgate/internal/cache"
	"github.com/dropDatabas3/gqlgate/internal/domain/types"
	"github.com/dropDatabas3/gqlgate/internal/security/token"
	"github.com/dropDatabas3/gqlgate/internal/store/core"
)

// DefaultLookupTTL staleness máxima de un lookup cacheado. Enabled/expiry se
// re-validan por request contra el registro cacheado, así que el TTL solo
// acota cuánto tarda en verse un cambio administrativo sin invalidación.
const DefaultLookupTTL = 30 * time.Second

const publicKey = "schema:public"

// cachedStore acelera los lookups calientes (por token y público) con un
// cache.Client. Escrituras invalidan. Fallos del backend de cache degradan a
// ir directo al store, nunca rompen la resolución.
type cachedStore struct {
	core.SchemaStore
	c   cache.Client
	ttl time.Duration
}

// NewCached envuelve un SchemaStore con cache de lecturas por token y del
// schema público. ttl <= 0 usa DefaultLookupTTL.
func NewCached(inner core.SchemaStore, c cache.Client, ttl time.Duration) core.SchemaStore {
	if ttl <= 0 {
		ttl = DefaultLookupTTL
	}
	return &cachedStore{SchemaStore: inner, c: c, ttl: ttl}
}

// tokenKey la key usa el digest, nunca el token crudo.
func tokenKey(accessToken string) string {
	return "schema:token:" + token.Digest(accessToken)
}

func (s *cachedStore) getCached(ctx context.Context, key string) *types.Schema {
	raw, err := s.c.Get(ctx, key)
	if err != nil {
		return nil
	}
	var out types.Schema
	if json.Unmarshal([]byte(raw), &out) != nil {
		_ = s.c.Delete(ctx, key)
		return nil
	}
	return &out
}

func (s *cachedStore) putCached(ctx context.Context, key string, sc *types.Schema) {
	raw, err := json.Marshal(sc)
	if err != nil {
		return
	}
	_ = s.c.Set(ctx, key, string(raw), s.ttl)
}

func (s *cachedStore) GetSchemaByToken(ctx context.Context, accessToken string) (*types.Schema, error) {
	if accessToken == "" {
		return nil, core.ErrNotFound
	}
	key := tokenKey(accessToken)
	if sc := s.getCached(ctx, key); sc != nil {
		return sc, nil
	}
	sc, err := s.SchemaStore.GetSchemaByToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	s.putCached(ctx, key, sc)
	return sc, nil
}

func (s *cachedStore) GetPublicSchema(ctx context.Context) (*types.Schema, error) {
	if sc := s.getCached(ctx, publicKey); sc != nil {
		return sc, nil
	}
	sc, err := s.SchemaStore.GetPublicSchema(ctx)
	if err != nil {
		return nil, err
	}
	s.putCached(ctx, publicKey, sc)
	return sc, nil
}

func (s *cachedStore) SaveSchema(ctx context.Context, sc *types.Schema) error {
	// En updates el token pudo haber cambiado: invalidar también el previo.
	if sc.ID != 0 {
		if prev, err := s.SchemaStore.GetSchemaByID(ctx, sc.ID); err == nil {
			s.invalidate(ctx, prev)
		}
	}
	if err := s.SchemaStore.SaveSchema(ctx, sc); err != nil {
		return err
	}
	s.invalidate(ctx, sc)
	return nil
}

func (s *cachedStore) DeleteSchemaByID(ctx context.Context, id int64) error {
	// Necesitamos el registro para conocer su token antes de borrarlo.
	if prev, err := s.SchemaStore.GetSchemaByID(ctx, id); err == nil {
		s.invalidate(ctx, prev)
	}
	return s.SchemaStore.DeleteSchemaByID(ctx, id)
}

func (s *cachedStore) invalidate(ctx context.Context, sc *types.Schema) {
	if sc.AccessToken != "" {
		_ = s.c.Delete(ctx, tokenKey(sc.AccessToken))
	}
	if sc.IsPublic {
		_ = s.c.Delete(ctx, publicKey)
	}
}
