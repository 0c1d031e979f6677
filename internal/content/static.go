package content

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// StaticProvider implementa TypeProvider con un set fijo de tipos cargado al
// construirse (de código o de un archivo YAML). El fingerprint se calcula
// una vez; Replace lo recalcula, simulando un cambio de estructura.
type StaticProvider struct {
	mu      sync.RWMutex
	types   []ContentType
	version uint64
}

// NewStaticProvider valida y congela el set de tipos.
func NewStaticProvider(ts []ContentType) (*StaticProvider, error) {
	if err := Validate(ts); err != nil {
		return nil, err
	}
	return &StaticProvider{types: ts, version: Fingerprint(ts)}, nil
}

// LoadProviderFile carga definiciones de tipos desde YAML.
//
// Formato:
//
//	types:
//	  - name: article
//	    mutable: true
//	    fields:
//	      - {name: id, kind: id, required: true}
//	      - {name: title, kind: string}
func LoadProviderFile(path string) (*StaticProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: reading %s: %w", path, err)
	}
	var doc struct {
		Types []ContentType `yaml:"types"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("content: parsing %s: %w", path, err)
	}
	return NewStaticProvider(doc.Types)
}

func (p *StaticProvider) Types() []ContentType {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]ContentType, len(p.types))
	copy(out, p.types)
	return out
}

func (p *StaticProvider) Version() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.version
}

// Replace sustituye el set de tipos y recalcula la versión.
func (p *StaticProvider) Replace(ts []ContentType) error {
	if err := Validate(ts); err != nil {
		return err
	}
	p.mu.Lock()
	p.types = ts
	p.version = Fingerprint(ts)
	p.mu.Unlock()
	return nil
}
