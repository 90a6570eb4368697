package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/social-feed-be/internal/apperr"
)

// GraphQLHandler serves the single GraphQL endpoint: POST for
// operations, GET for ad-hoc queries and the interactive explorer.
// Responses are always HTTP 200; failures travel inside the errors
// array, with domain errors reshaped into {status, message, errors}.
type GraphQLHandler struct {
	schema graphql.Schema
}

// NewGraphQLHandler creates a new GraphQLHandler.
func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Serve handles a GraphQL request.
func (h *GraphQLHandler) Serve(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest

	switch r.Method {
	case http.MethodGet:
		req.Query = r.URL.Query().Get("query")
		if req.Query == "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(graphiqlPage))
			return
		}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	response := map[string]interface{}{"data": result.Data}
	if len(result.Errors) > 0 {
		response["errors"] = formatErrors(result.Errors)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to write GraphQL response")
	}
}

// formatErrors reshapes domain errors into the public envelope
// {status, message, errors}. Plain transport-level errors (syntax,
// unknown fields) pass through unchanged.
func formatErrors(errs []gqlerrors.FormattedError) []interface{} {
	out := make([]interface{}, 0, len(errs))
	for _, fe := range errs {
		domainErr, ok := domainError(fe)
		if !ok {
			out = append(out, fe)
			continue
		}
		shaped := map[string]interface{}{
			"status":  domainErr.Code,
			"message": fe.Message,
		}
		if domainErr.Data != nil {
			shaped["errors"] = domainErr.Data
		}
		out = append(out, shaped)
	}
	return out
}

// domainError digs the domain error out of a formatted one. The executor
// wraps resolver errors, sometimes more than once, so walk the chain.
func domainError(fe gqlerrors.FormattedError) (*apperr.Error, bool) {
	err := fe.OriginalError()
	for err != nil {
		if e, ok := apperr.From(err); ok {
			return e, true
		}
		switch v := err.(type) {
		case *gqlerrors.Error:
			err = v.OriginalError
		case gqlerrors.FormattedError:
			err = v.OriginalError()
		default:
			err = errors.Unwrap(err)
		}
	}
	return nil, false
}

// Minimal GraphiQL page for interactive exploration on GET /graphql.
const graphiqlPage = `<!DOCTYPE html>
<html>
<head>
  <title>GraphiQL</title>
  <style>html, body, #graphiql { height: 100%; margin: 0; }</style>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
</head>
<body>
  <div id="graphiql"></div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    ReactDOM.createRoot(document.getElementById('graphiql')).render(
      React.createElement(GraphiQL, {
        fetcher: GraphiQL.createFetcher({ url: '/graphql' }),
      })
    );
  </script>
</body>
</html>`
