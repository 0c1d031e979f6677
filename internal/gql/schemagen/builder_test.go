package schemagen

import (
	"strings"
	"testing"

	"github.com/graphql-go/graphql"

	"github.com/dropDatabas3/gqlgate/internal/content"
	"github.com/dropDatabas3/gqlgate/internal/domain/types"
)

func testTypes() []content.ContentType {
	return []content.ContentType{
		{
			Name: "article",
			Fields: []content.ContentField{
				{Name: "id", Kind: content.FieldID, Required: true},
				{Name: "title", Kind: content.FieldString, Required: true},
				{Name: "body", Kind: content.FieldString},
			},
			Mutable: true,
		},
		{
			Name: "category",
			Fields: []content.ContentField{
				{Name: "id", Kind: content.FieldID, Required: true},
				{Name: "name", Kind: content.FieldString},
			},
		},
	}
}

func TestBuild_FiltersTypesByScope(t *testing.T) {
	schema, err := Build(testTypes(), types.MustScope("article:read"), content.NewMemResolver(), 1, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	q := schema.QueryType()
	if q.Fields()["article"] == nil {
		t.Fatal("article must be queryable")
	}
	if q.Fields()["category"] != nil {
		t.Fatal("category is out of scope")
	}
	if schema.MutationType() != nil {
		t.Fatal("read scope must not produce mutations")
	}
}

func TestBuild_FieldLevelPermissions(t *testing.T) {
	schema, err := Build(testTypes(), types.MustScope("article.id:read", "article.title:read"), content.NewMemResolver(), 1, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if schema.QueryType().Fields()["article"] == nil {
		t.Fatal("article must be queryable")
	}
	obj, ok := schema.Type("Article").(*graphql.Object)
	if !ok {
		t.Fatal("Article object missing")
	}
	fields := obj.Fields()
	if fields["id"] == nil || fields["title"] == nil {
		t.Fatalf("granted fields missing: %v", fields)
	}
	if fields["body"] != nil {
		t.Fatal("body was not granted")
	}
}

func TestBuild_MutationsForWriteScope(t *testing.T) {
	schema, err := Build(testTypes(), types.MustScope("article:*"), content.NewMemResolver(), 1, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m := schema.MutationType()
	if m == nil {
		t.Fatal("write scope on a mutable type must produce mutations")
	}
	if m.Fields()["saveArticle"] == nil || m.Fields()["deleteArticle"] == nil {
		t.Fatalf("mutation fields: %v", m.Fields())
	}
}

func TestBuild_ImmutableTypeHasNoMutations(t *testing.T) {
	schema, err := Build(testTypes(), types.MustScope("category:*"), content.NewMemResolver(), 1, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if schema.MutationType() != nil {
		t.Fatal("category is not mutable")
	}
}

func TestBuild_UnknownScopeComponent(t *testing.T) {
	_, err := Build(testTypes(), types.MustScope("ghost:read"), content.NewMemResolver(), 1, BuildOptions{})
	if err == nil {
		t.Fatal("expected error for unknown component")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("error should name the component: %v", err)
	}
}

func TestBuild_EmptyScope(t *testing.T) {
	if _, err := Build(testTypes(), types.Scope{}, content.NewMemResolver(), 1, BuildOptions{}); err == nil {
		t.Fatal("empty scope yields no queryable fields and must fail")
	}
}

func TestBuild_DevModeDebugFields(t *testing.T) {
	schema, err := Build(testTypes(), types.MustScope("article:read"), content.NewMemResolver(), 1, BuildOptions{DevMode: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	q := schema.QueryType().Fields()
	if q["_contentVersion"] == nil || q["_schemaFingerprint"] == nil {
		t.Fatal("devMode debug fields missing")
	}

	prod, err := Build(testTypes(), types.MustScope("article:read"), content.NewMemResolver(), 1, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if prod.QueryType().Fields()["_contentVersion"] != nil {
		t.Fatal("debug fields must be devMode-only")
	}
}

func TestBuild_InvalidTypeGraph(t *testing.T) {
	bad := []content.ContentType{{Name: "broken", Fields: []content.ContentField{{Name: "x", Kind: "blob"}}}}
	if _, err := Build(bad, types.MustScope("broken:read"), content.NewMemResolver(), 1, BuildOptions{}); err == nil {
		t.Fatal("unknown field kind must fail the build")
	}
}
