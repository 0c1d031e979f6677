package schemagen

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/graphql-go/graphql"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/gqlgate/internal/content"
	"github.com/dropDatabas3/gqlgate/internal/domain/types"
)

// Cache guarda schemas de ejecución compilados, por clave
// (fingerprint de scope, devMode, versión de estructura de contenido).
// Thread-safe; singleflight deduplica builds concurrentes de la misma clave
// y garantiza que todos los requesters observan el mismo artefacto. Builds
// fallidos no se cachean.
type Cache struct {
	provider content.TypeProvider
	resolver content.Resolver

	entries sync.Map // key string → graphql.Schema
	sf      singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
	builds atomic.Uint64
}

// NewCache crea el cache de schemas compilados sobre un proveedor de tipos
// y un resolver de datos.
func NewCache(provider content.TypeProvider, resolver content.Resolver) *Cache {
	return &Cache{provider: provider, resolver: resolver}
}

func (c *Cache) key(scope types.Scope, devMode bool) string {
	return fmt.Sprintf("%016x:%t:%016x", scope.Fingerprint(), devMode, c.provider.Version())
}

// Get retorna el schema compilado para el scope, compilándolo si hace
// falta. El artefacto es de solo-lectura: los requests lo toman prestado
// durante la ejecución, el cache es el dueño.
func (c *Cache) Get(_ context.Context, scope types.Scope, devMode bool) (graphql.Schema, error) {
	key := c.key(scope, devMode)
	if v, ok := c.entries.Load(key); ok {
		c.hits.Add(1)
		return v.(graphql.Schema), nil
	}
	c.misses.Add(1)

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check: otro requester pudo completar el build.
		if v, ok := c.entries.Load(key); ok {
			return v, nil
		}
		c.builds.Add(1)
		version := c.provider.Version()
		schema, err := Build(c.provider.Types(), scope, c.resolver, version, BuildOptions{DevMode: devMode})
		if err != nil {
			return nil, err
		}
		c.entries.Store(key, schema)
		return schema, nil
	})
	if err != nil {
		return graphql.Schema{}, err
	}
	return v.(graphql.Schema), nil
}

// Purge descarta todos los artefactos cacheados. Se invoca cuando cambian
// scopes por vía administrativa; los cambios de estructura de contenido no
// lo necesitan porque la versión entra en la clave.
func (c *Cache) Purge() {
	c.entries.Range(func(k, _ interface{}) bool {
		c.entries.Delete(k)
		return true
	})
}

// Stats snapshot de contadores del cache.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Builds  uint64
	Entries int
}

// Stats retorna los contadores acumulados y el tamaño actual.
func (c *Cache) Stats() Stats {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool { n++; return true })
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Builds:  c.builds.Load(),
		Entries: n,
	}
}

// Builds cantidad de compilaciones reales ejecutadas (para tests).
func (c *Cache) Builds() uint64 { return c.builds.Load() }
