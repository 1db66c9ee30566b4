// Package wandb is a read-only client for the Weights & Biases GraphQL API,
// covering the three lookups the comparison flow needs: the viewer behind an
// API key, the tagged baseline run of a project, and a single run by ID.
package wandb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound indicates that no run matched the lookup.
var ErrNotFound = errors.New("run not found")

// APIError describes a non-success HTTP response from the service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

const viewerQuery = `query Viewer {
    viewer {
        id
        entity
    }
}`

const baselineRunQuery = `query BaselineRun($entity: String!, $project: String!, $filters: JSONString, $first: Int) {
    project(name: $project, entityName: $entity) {
        runs(filters: $filters, first: $first) {
            edges {
                node {
                    name
                    displayName
                }
            }
        }
    }
}`

const runQuery = `query Run($entity: String!, $project: String!, $name: String!) {
    project(name: $project, entityName: $entity) {
        run(name: $name) {
            name
            displayName
        }
    }
}`

// Client talks to the W&B GraphQL endpoint. All operations are single-shot:
// the surrounding CI step treats any failure as terminal, so nothing is
// retried.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	requestID  string // correlates the calls of one invocation in service logs
}

// DefaultClientConfig returns sensible defaults for the hosted service.
func DefaultClientConfig(apiKey string) ClientConfig {
	return ClientConfig{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Timeout: defaultTimeout,
	}
}

// NewClient creates a new client with default config.
func NewClient(apiKey string) *Client {
	config := DefaultClientConfig(apiKey)
	return NewClientWithConfig(config)
}

// NewClientWithConfig creates a new client with custom config.
func NewClientWithConfig(config ClientConfig) *Client {
	return &Client{
		apiKey:  config.APIKey,
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:    zap.NewNop(),
		requestID: uuid.NewString(),
	}
}

// SetLogger attaches a logger for request diagnostics.
func (c *Client) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Viewer returns the account associated with the API key. It is the cheapest
// way to verify a credential before running lookups.
func (c *Client) Viewer(ctx context.Context) (*Viewer, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key not configured")
	}

	var data viewerData
	if err := c.query(ctx, "Viewer", viewerQuery, nil, &data); err != nil {
		return nil, err
	}

	if data.Viewer == nil || data.Viewer.ID == "" {
		return nil, fmt.Errorf("API key was not accepted by the service")
	}

	return &Viewer{ID: data.Viewer.ID, Entity: data.Viewer.Entity}, nil
}

// BaselineRun returns the first run in entity/project carrying the given tag.
// The service decides the ordering of matches; when several runs carry the
// tag, whichever it yields first wins. Zero matches yields ErrNotFound.
func (c *Client) BaselineRun(ctx context.Context, entity, project, tag string) (*Run, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key not configured")
	}

	filters, err := json.Marshal(map[string]interface{}{
		"tags": map[string]interface{}{"$in": []string{tag}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run filter: %w", err)
	}

	variables := map[string]interface{}{
		"entity":  entity,
		"project": project,
		"filters": string(filters),
		"first":   1,
	}

	var data runsData
	if err := c.query(ctx, "BaselineRun", baselineRunQuery, variables, &data); err != nil {
		return nil, err
	}

	if data.Project == nil {
		return nil, fmt.Errorf("project %s/%s not found", entity, project)
	}

	edges := data.Project.Runs.Edges
	if len(edges) == 0 {
		return nil, fmt.Errorf("no run tagged %q in %s/%s: %w", tag, entity, project, ErrNotFound)
	}

	node := edges[0].Node
	return &Run{ID: node.Name, DisplayName: node.DisplayName}, nil
}

// Run fetches a single run by its identifier. An unknown ID yields
// ErrNotFound.
func (c *Client) Run(ctx context.Context, entity, project, runID string) (*Run, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key not configured")
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is empty")
	}

	variables := map[string]interface{}{
		"entity":  entity,
		"project": project,
		"name":    runID,
	}

	var data runData
	if err := c.query(ctx, "Run", runQuery, variables, &data); err != nil {
		return nil, err
	}

	if data.Project == nil {
		return nil, fmt.Errorf("project %s/%s not found", entity, project)
	}
	if data.Project.Run == nil {
		return nil, fmt.Errorf("run %q not found in %s/%s: %w", runID, entity, project, ErrNotFound)
	}

	return &Run{ID: data.Project.Run.Name, DisplayName: data.Project.Run.DisplayName}, nil
}

// query executes one GraphQL request and decodes the data payload into out.
func (c *Client) query(ctx context.Context, name, query string, variables map[string]interface{}, out interface{}) error {
	reqBody := graphqlRequest{Query: query, Variables: variables}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/graphql", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", c.requestID)
	req.SetBasicAuth("api", c.apiKey)

	c.logger.Debug("GraphQL request",
		zap.String("operation", name),
		zap.String("request_id", c.requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("GraphQL response",
		zap.String("operation", name),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body[:min(len(body), 200)])}
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w (body excerpt: %s)", err, string(body[:min(len(body), 100)]))
	}

	if len(envelope.Errors) > 0 {
		return fmt.Errorf("API error: %s", envelope.Errors[0].Message)
	}

	if len(envelope.Data) == 0 {
		return fmt.Errorf("response carried no data")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}

	return nil
}
