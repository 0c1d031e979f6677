package gql

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"
)

// Response es el envelope uniforme {data, errors}. Los errores de ejecución
// viajan adentro del envelope con shape HTTP-success; solo una falla total
// del engine se vuelve un error duro (GatewayExecutionError).
type Response struct {
	Data   interface{}     `json:"data"`
	Errors []ResponseError `json:"errors,omitempty"`
}

// ResponseError un error dentro del envelope.
type ResponseError struct {
	Message   string          `json:"message"`
	Locations []ErrorLocation `json:"locations,omitempty"`
	Path      []interface{}   `json:"path,omitempty"`
}

// ErrorLocation posición en el texto de la query.
type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// HasErrors retorna true si el envelope trae errores.
func (r *Response) HasErrors() bool { return len(r.Errors) > 0 }

// Execute corre la query contra el schema de ejecución ya compilado y
// normaliza el resultado del engine al envelope. Errores de sintaxis,
// validación o de resolvers quedan en Errors; un pánico del engine se
// envuelve como GatewayExecutionError.
func Execute(ctx context.Context, schema graphql.Schema, p Params) (resp *Response, err error) {
	if p.Query == "" {
		return nil, ErrNoQuery
	}

	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = &GatewayExecutionError{Err: fmt.Errorf("engine panic: %v", r)}
		}
	}()

	result := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  p.Query,
		VariableValues: p.Variables,
		OperationName:  p.OperationName,
		Context:        ctx,
	})
	if result == nil {
		return nil, &GatewayExecutionError{Err: fmt.Errorf("engine returned no result")}
	}

	resp = &Response{Data: result.Data}
	for _, fe := range result.Errors {
		re := ResponseError{Message: fe.Message, Path: fe.Path}
		for _, loc := range fe.Locations {
			re.Locations = append(re.Locations, ErrorLocation{Line: loc.Line, Column: loc.Column})
		}
		resp.Errors = append(resp.Errors, re)
	}
	return resp, nil
}
