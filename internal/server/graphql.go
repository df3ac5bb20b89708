package server

import (
	_ "embed"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	identityhandler "rbac-auth/backend/internal/identity/handler"
	userhandler "rbac-auth/backend/internal/user/handler"
)

//go:embed schema.graphql
var schemaSDL string

// maxQueryDepth bounds nested selections; the schema is at most three levels deep.
const maxQueryDepth = 8

// RootResolver serves every Query and Mutation field by embedding the feature resolvers.
type RootResolver struct {
	*identityhandler.AuthResolver
	*userhandler.UserResolver
}

// NewSchema parses the embedded schema against root. It panics on a resolver/schema mismatch.
func NewSchema(root *RootResolver) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, root,
		graphql.UseFieldResolvers(),
		graphql.MaxDepth(maxQueryDepth),
	)
}

// GraphQLHandler returns the POST /graphql handler for schema.
func GraphQLHandler(schema *graphql.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}
