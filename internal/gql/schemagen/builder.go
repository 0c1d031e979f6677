// Package schemagen compila schemas de ejecución GraphQL recortados al
// scope de un schema de autorización, y los cachea por identidad de
// (scope, devMode, versión de estructura de contenido).
package schemagen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/dropDatabas3/gqlgate/internal/content"
	"github.com/dropDatabas3/gqlgate/internal/domain/types"
)

// BuildOptions parámetros del build.
type BuildOptions struct {
	// DevMode agrega campos de debug al root query (_contentVersion,
	// _schemaFingerprint). Artefactos dev y no-dev se cachean por separado.
	DevMode bool
}

var scalarByKind = map[string]*graphql.Scalar{
	content.FieldString:   graphql.String,
	content.FieldInt:      graphql.Int,
	content.FieldFloat:    graphql.Float,
	content.FieldBoolean:  graphql.Boolean,
	content.FieldID:       graphql.ID,
	content.FieldDateTime: graphql.DateTime,
}

// exportName "article" → "Article" para nombres de objetos GraphQL.
func exportName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Build compila un schema de ejecución que expone exactamente lo que el
// scope permite. Falla si el grafo de tipos es inconsistente, si el scope
// referencia componentes inexistentes, o si el recorte deja el schema sin
// ningún campo consultable.
func Build(ts []content.ContentType, scope types.Scope, resolver content.Resolver, version uint64, opts BuildOptions) (graphql.Schema, error) {
	if err := content.Validate(ts); err != nil {
		return graphql.Schema{}, err
	}
	if err := checkScopeComponents(ts, scope); err != nil {
		return graphql.Schema{}, err
	}

	queryFields := graphql.Fields{}
	mutationFields := graphql.Fields{}

	for _, ct := range ts {
		fields := permittedFields(ct, scope)
		if len(fields) == 0 {
			continue
		}

		obj := graphql.NewObject(graphql.ObjectConfig{
			Name:   exportName(ct.Name),
			Fields: fields,
		})

		typeName := ct.Name
		queryFields[typeName] = &graphql.Field{
			Type: graphql.NewList(obj),
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.ID},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)
				return resolver.ResolveQuery(p.Context, typeName, id)
			},
		}

		if ct.Mutable && scope.Allows(ct.Name, types.ActionWrite) {
			addMutations(mutationFields, ct, obj, resolver)
		}
	}

	if opts.DevMode {
		addDebugFields(queryFields, scope, version)
	}

	if len(queryFields) == 0 {
		return graphql.Schema{}, fmt.Errorf("schemagen: scope %v yields no queryable fields", scope.Entries())
	}

	cfg := graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: queryFields}),
	}
	if len(mutationFields) > 0 {
		cfg.Mutation = graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: mutationFields})
	}
	return graphql.NewSchema(cfg)
}

// permittedFields filtra los campos de un tipo según el scope. Un permiso a
// nivel de tipo habilita todos sus campos; permisos "tipo.campo" habilitan
// de a uno.
func permittedFields(ct content.ContentType, scope types.Scope) graphql.Fields {
	out := graphql.Fields{}
	for _, f := range ct.Fields {
		if !scope.Allows(ct.Name+"."+f.Name, types.ActionRead) {
			continue
		}
		t := graphql.Output(scalarByKind[f.Kind])
		if f.Required {
			t = graphql.NewNonNull(t)
		}
		out[f.Name] = &graphql.Field{Type: t}
	}
	return out
}

func addMutations(mutationFields graphql.Fields, ct content.ContentType, obj *graphql.Object, resolver content.Resolver) {
	typeName := ct.Name

	saveArgs := graphql.FieldConfigArgument{}
	for _, f := range ct.Fields {
		saveArgs[f.Name] = &graphql.ArgumentConfig{Type: scalarByKind[f.Kind]}
	}
	mutationFields["save"+exportName(typeName)] = &graphql.Field{
		Type: obj,
		Args: saveArgs,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return resolver.ResolveMutation(p.Context, typeName, "save", p.Args)
		},
	}

	mutationFields["delete"+exportName(typeName)] = &graphql.Field{
		Type: obj,
		Args: graphql.FieldConfigArgument{
			"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return resolver.ResolveMutation(p.Context, typeName, "delete", p.Args)
		},
	}
}

// addDebugFields extensiones de introspección de devMode.
func addDebugFields(queryFields graphql.Fields, scope types.Scope, version uint64) {
	queryFields["_contentVersion"] = &graphql.Field{
		Type: graphql.String,
		Resolve: func(graphql.ResolveParams) (interface{}, error) {
			return fmt.Sprintf("%016x", version), nil
		},
	}
	queryFields["_schemaFingerprint"] = &graphql.Field{
		Type: graphql.String,
		Resolve: func(graphql.ResolveParams) (interface{}, error) {
			return fmt.Sprintf("%016x", scope.Fingerprint()), nil
		},
	}
}

// checkScopeComponents falla si el scope otorga permisos sobre tipos o
// campos que el proveedor de contenido no define.
func checkScopeComponents(ts []content.ContentType, scope types.Scope) error {
	known := make(map[string]struct{})
	for _, t := range ts {
		known[t.Name] = struct{}{}
		for _, f := range t.Fields {
			known[t.Name+"."+f.Name] = struct{}{}
		}
	}

	var missing []string
	for _, comp := range scope.Components() {
		if _, ok := known[comp]; !ok {
			missing = append(missing, comp)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("schemagen: scope references unknown components: %s", strings.Join(missing, ", "))
	}
	return nil
}
