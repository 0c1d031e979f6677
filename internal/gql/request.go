package gql

import (
	"context"
	"encoding/json"
	"mime"
	"net/url"
	"regexp"
	"strings"

	"github.com/dropDatabas3/gqlgate/internal/domain/types"
)

// contentTypeGraphQL el body entero es el texto de la query.
const contentTypeGraphQL = "application/graphql"

// ActiveSchemaFunc entrega el schema "activo" designado por una capa de
// autenticación previa al gateway.
type ActiveSchemaFunc func(ctx context.Context) (*types.Schema, error)

// RequestContext es la forma transport-agnóstica de un request entrante.
// El adaptador HTTP la arma; el core no toca net/http.
type RequestContext struct {
	// Method método del request ("GET", "POST", ...).
	Method string

	// ContentType header Content-Type crudo (puede traer parámetros).
	ContentType string

	// Authorization header Authorization crudo, o vacío.
	Authorization string

	// Body cuerpo crudo del request.
	Body []byte

	// QueryParams parámetros de la URL.
	QueryParams url.Values

	// ActiveSchema schema "activo" designado por una capa de autenticación
	// previa, si la hay. Se pasa explícito para que la resolución sea
	// función pura de (request, store). Un error acá NO se propaga: se cae
	// al schema público (silencio deliberado, ver resolver).
	ActiveSchema ActiveSchemaFunc
}

// Params es lo extraído del request para ejecutar.
type Params struct {
	Query         string
	OperationName string
	Variables     map[string]interface{}
}

var bearerRe = regexp.MustCompile(`(?i)^Bearer\s+(.+)$`)

// BearerToken extrae el token de un header "Bearer <token>", case-insensitive.
// Un header malformado o de otro esquema equivale a no traer header.
func BearerToken(authorization string) (string, bool) {
	m := bearerRe.FindStringSubmatch(authorization)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// isWrite los requests de escritura pueden traer la query en el body.
func (rc *RequestContext) isWrite() bool {
	switch strings.ToUpper(rc.Method) {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// ExtractParams determina query/operationName/variables con la precedencia
// exacta del protocolo:
//
//  1. Escritura + Content-Type application/graphql: el body ES la query.
//  2. Escritura con body estructurado: campos query/operationName/variables.
//  3. El parámetro de URL "query" pisa lo que haya salido del body.
//  4. Sin query por ningún lado: ErrNoQuery.
func ExtractParams(rc *RequestContext) (Params, error) {
	var p Params

	if rc.isWrite() && len(rc.Body) > 0 {
		mediaType, _, err := mime.ParseMediaType(rc.ContentType)
		if err != nil {
			mediaType = rc.ContentType
		}
		if mediaType == contentTypeGraphQL {
			p.Query = string(rc.Body)
		} else {
			var body struct {
				Query         string                 `json:"query"`
				OperationName string                 `json:"operationName"`
				Variables     map[string]interface{} `json:"variables"`
			}
			// Un body no parseable se trata como body sin query; el paso 3
			// o el chequeo final deciden.
			if json.Unmarshal(rc.Body, &body) == nil {
				p.Query = body.Query
				p.OperationName = body.OperationName
				p.Variables = body.Variables
			}
		}
	}

	if q := rc.QueryParams.Get("query"); q != "" {
		p.Query = q
	}

	if p.Query == "" {
		return Params{}, ErrNoQuery
	}
	return p, nil
}
