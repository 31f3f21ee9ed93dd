// Package graphql wraps graphql-go with the small amount of HTTP plumbing
// the API needs: build a schema from a root query object and serve it as a
// POST endpoint.
package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/pecaforte/inventory/pkg/bind"
	"github.com/pecaforte/inventory/pkg/response"
)

// NewSchema creates a GraphQL schema from a provided RootQuery
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Handler serves the schema over HTTP. Query errors come back inside the
// GraphQL result body with status 200, as clients expect.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if _, err := bind.JSON(r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Query == "" {
			response.Error(w, http.StatusBadRequest, "query is required")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})
		response.JSON(w, http.StatusOK, result)
	}
}
