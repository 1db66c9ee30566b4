package wandb

import (
	"encoding/json"
	"time"
)

// ClientConfig holds configuration for the API client.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Viewer identifies the account behind an API key.
type Viewer struct {
	ID     string
	Entity string
}

// Run identifies a tracked experiment run.
//
// ID is the short identifier the service embeds in run URLs (the GraphQL
// "name" field). DisplayName is the human-readable label shown in the UI.
type Run struct {
	ID          string
	DisplayName string
}

// graphqlRequest is the envelope for GraphQL POST bodies.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphqlResponse is the envelope for GraphQL responses. Data stays raw so
// each operation can decode its own payload shape.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// runNode is the run payload returned by run queries.
type runNode struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// viewerData is the payload of the viewer query.
type viewerData struct {
	Viewer *struct {
		ID     string `json:"id"`
		Entity string `json:"entity"`
	} `json:"viewer"`
}

// runsData is the payload of the filtered run listing.
type runsData struct {
	Project *struct {
		Runs struct {
			Edges []struct {
				Node runNode `json:"node"`
			} `json:"edges"`
		} `json:"runs"`
	} `json:"project"`
}

// runData is the payload of a single-run lookup.
type runData struct {
	Project *struct {
		Run *runNode `json:"run"`
	} `json:"project"`
}
