package gql

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/dropDatabas3/gqlgate/internal/content"
	"github.com/dropDatabas3/gqlgate/internal/domain/types"
	"github.com/dropDatabas3/gqlgate/internal/gql/schemagen"
	"github.com/dropDatabas3/gqlgate/internal/store"
)

func newTestService(t *testing.T, st store.SchemaStore, devMode bool) (*Service, *content.MemResolver) {
	t.Helper()
	provider, err := content.NewStaticProvider(content.DefaultTypes())
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	resolver := content.NewMemResolver()
	return NewService(st, schemagen.NewCache(provider, resolver), devMode, nil), resolver
}

func graphqlPost(query string) *RequestContext {
	return &RequestContext{
		Method:      "POST",
		ContentType: "application/graphql",
		Body:        []byte(query),
		QueryParams: url.Values{},
	}
}

func TestHandle_PublicQuery(t *testing.T) {
	st := store.NewMemory()
	seedSchema(t, st, &types.Schema{Scope: types.MustScope("entry:read"), Enabled: true, IsPublic: true})

	svc, resolver := newTestService(t, st, false)
	resolver.Put("entry", map[string]interface{}{"id": "1", "title": "First"})

	resp, err := svc.Handle(context.Background(), graphqlPost(`{ entry { title } }`))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.HasErrors() {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	if resp.Data == nil {
		t.Fatal("data must be present")
	}
}

func TestHandle_ForbiddenWinsOverMissingQuery(t *testing.T) {
	// Credencial inválida y query ausente a la vez: gana Forbidden.
	st := store.NewMemory()
	svc, _ := newTestService(t, st, false)

	rc := &RequestContext{
		Method:        "POST",
		Authorization: "Bearer unknown",
		QueryParams:   url.Values{},
	}
	if _, err := svc.Handle(context.Background(), rc); err != ErrForbidden {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestHandle_MissingQuery(t *testing.T) {
	st := store.NewMemory()
	seedSchema(t, st, &types.Schema{Scope: types.MustScope("entry:read"), Enabled: true, IsPublic: true})

	svc, _ := newTestService(t, st, false)
	rc := &RequestContext{Method: "POST", QueryParams: url.Values{}}
	if _, err := svc.Handle(context.Background(), rc); err != ErrNoQuery {
		t.Fatalf("err = %v, want ErrNoQuery", err)
	}
}

func TestHandle_SchemaBuildError(t *testing.T) {
	st := store.NewMemory()
	// Scope que referencia un componente que el grafo no define.
	seedSchema(t, st, &types.Schema{Scope: types.MustScope("ghost:read"), Enabled: true, IsPublic: true})

	svc, _ := newTestService(t, st, false)
	_, err := svc.Handle(context.Background(), graphqlPost(`{ entry { title } }`))
	var buildErr *SchemaBuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("err = %v, want *SchemaBuildError", err)
	}
}

func TestHandle_ExecutionErrorsInEnvelope(t *testing.T) {
	st := store.NewMemory()
	seedSchema(t, st, &types.Schema{Scope: types.MustScope("entry:read"), Enabled: true, IsPublic: true})

	svc, _ := newTestService(t, st, false)
	resp, err := svc.Handle(context.Background(), graphqlPost(`{ entry { doesNotExist } }`))
	if err != nil {
		t.Fatalf("execution errors must not surface as hard errors: %v", err)
	}
	if !resp.HasErrors() {
		t.Fatal("expected errors in envelope")
	}
}

func TestHandle_DevModeDebugFields(t *testing.T) {
	st := store.NewMemory()
	seedSchema(t, st, &types.Schema{Scope: types.MustScope("entry:read"), Enabled: true, IsPublic: true})

	svc, _ := newTestService(t, st, true)
	resp, err := svc.Handle(context.Background(), graphqlPost(`{ _contentVersion _schemaFingerprint }`))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.HasErrors() {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	data := resp.Data.(map[string]interface{})
	if data["_contentVersion"] == "" || data["_schemaFingerprint"] == "" {
		t.Fatalf("debug fields missing: %v", data)
	}

	// Fuera de devMode los campos no existen.
	svcProd, _ := newTestService(t, st, false)
	resp, err = svcProd.Handle(context.Background(), graphqlPost(`{ _contentVersion }`))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !resp.HasErrors() {
		t.Fatal("debug fields must not exist outside devMode")
	}
}

func TestHandle_ScopedSchemaPerCredential(t *testing.T) {
	st := store.NewMemory()
	wide := seedSchema(t, st, &types.Schema{
		Name:    "Wide",
		Scope:   types.MustScope("entry:read", "asset:read"),
		Enabled: true,
	})
	narrow := seedSchema(t, st, &types.Schema{
		Name:    "Narrow",
		Scope:   types.MustScope("entry:read"),
		Enabled: true,
	})

	svc, _ := newTestService(t, st, false)

	rc := graphqlPost(`{ asset { id } }`)
	rc.Authorization = "Bearer " + wide.AccessToken
	resp, err := svc.Handle(context.Background(), rc)
	if err != nil {
		t.Fatalf("wide: %v", err)
	}
	if resp.HasErrors() {
		t.Fatalf("wide scope should see asset: %+v", resp.Errors)
	}

	rc = graphqlPost(`{ asset { id } }`)
	rc.Authorization = "Bearer " + narrow.AccessToken
	resp, err = svc.Handle(context.Background(), rc)
	if err != nil {
		t.Fatalf("narrow: %v", err)
	}
	if !resp.HasErrors() {
		t.Fatal("narrow scope must not see asset")
	}
}
