package controllers

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/pecaforte/inventory/app/services"
	gql "github.com/pecaforte/inventory/pkg/graphql"
	"github.com/pecaforte/inventory/pkg/logger"
)

// GraphQLController exposes a read-only query surface over the catalog,
// the ledger and the stats. Mutations stay on the REST endpoints where the
// capability token is enforced.
type GraphQLController struct {
	handler http.HandlerFunc
}

func NewGraphQLController(inv *services.Inventory) *GraphQLController {
	schema, err := gql.NewSchema(rootQuery(inv))
	if err != nil {
		// Schema construction only fails on a programming error.
		logger.Error("graphql: schema build failed", "error", err)
		return &GraphQLController{handler: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "graphql unavailable", http.StatusInternalServerError)
		}}
	}
	return &GraphQLController{handler: gql.Handler(schema)}
}

// Handle serves POST /api/graphql.
func (c *GraphQLController) Handle(w http.ResponseWriter, r *http.Request) {
	c.handler(w, r)
}

var productFieldsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductFields",
	Fields: graphql.Fields{
		"number":      &graphql.Field{Type: graphql.String},
		"measure":     &graphql.Field{Type: graphql.String},
		"inch":        &graphql.Field{Type: graphql.String},
		"model":       &graphql.Field{Type: graphql.String},
		"thickness":   &graphql.Field{Type: graphql.String},
		"bore_length": &graphql.Field{Type: graphql.String},
		"bore":        &graphql.Field{Type: graphql.String},
		"unit_price":  &graphql.Field{Type: graphql.Float},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.String},
		"category": &graphql.Field{Type: graphql.String},
		"quantity": &graphql.Field{Type: graphql.Int},
		"fields":   &graphql.Field{Type: productFieldsType},
	},
})

var stockType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CategoryStock",
	Fields: graphql.Fields{
		"category": &graphql.Field{Type: graphql.String},
		"stock":    &graphql.Field{Type: graphql.Int},
	},
})

var categoryStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CategoryStats",
	Fields: graphql.Fields{
		"category": &graphql.Field{Type: graphql.String},
		"products": &graphql.Field{Type: graphql.Int},
		"units":    &graphql.Field{Type: graphql.Int},
		"stock":    &graphql.Field{Type: graphql.Int},
		"value":    &graphql.Field{Type: graphql.Float},
	},
})

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"total_products": &graphql.Field{Type: graphql.Int},
		"total_units":    &graphql.Field{Type: graphql.Int},
		"total_value":    &graphql.Field{Type: graphql.Float},
		"categories":     &graphql.Field{Type: graphql.NewList(categoryStatsType)},
	},
})

func rootQuery(inv *services.Inventory) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					products, err := inv.Catalog(p.Context)
					if err != nil {
						return nil, err
					}
					search, _ := p.Args["search"].(string)
					category, _ := p.Args["category"].(string)
					return services.FilterProducts(products, search, category), nil
				},
			},
			"stocks": &graphql.Field{
				Type: graphql.NewList(stockType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return inv.Ledger(p.Context)
				},
			},
			"stats": &graphql.Field{
				Type: statsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return inv.Stats(p.Context)
				},
			},
		},
	})
}
