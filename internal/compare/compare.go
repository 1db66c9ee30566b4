// Package compare sequences the baseline comparison: verify the credential,
// resolve the tagged baseline run and the candidate run, build the
// side-by-side comparison URL, and persist it for downstream CI steps.
package compare

import (
	"context"
	"fmt"
	"os"

	"wandbcompare/internal/wandb"

	"go.uber.org/zap"
)

// RunSource provides the lookups a comparison needs. *wandb.Client
// satisfies it.
type RunSource interface {
	Viewer(ctx context.Context) (*wandb.Viewer, error)
	BaselineRun(ctx context.Context, entity, project, tag string) (*wandb.Run, error)
	Run(ctx context.Context, entity, project, runID string) (*wandb.Run, error)
}

// Params holds the comparison inputs.
type Params struct {
	Entity      string
	Project     string
	RunID       string // the candidate, usually the run the current CI job produced
	BaselineTag string
	AppURL      string
}

// Result carries both resolved runs and the comparison URL.
type Result struct {
	Baseline   *wandb.Run
	Comparison *wandb.Run
	URL        string
}

// Comparer resolves a baseline comparison against one run source.
type Comparer struct {
	source RunSource
	params Params
	logger *zap.Logger
}

// New creates a Comparer.
func New(source RunSource, params Params) *Comparer {
	return &Comparer{
		source: source,
		params: params,
		logger: zap.NewNop(),
	}
}

// SetLogger attaches a logger for step diagnostics.
func (c *Comparer) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Execute runs the comparison steps strictly in order: credential check,
// baseline lookup, candidate lookup, URL construction. The first failure
// aborts the remainder.
func (c *Comparer) Execute(ctx context.Context) (*Result, error) {
	fmt.Printf("Comparing runs in %s/%s\n", c.params.Entity, c.params.Project)

	viewer, err := c.source.Viewer(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	c.logger.Debug("Authenticated",
		zap.String("viewer_entity", viewer.Entity))

	fmt.Printf("Fetching baseline run (tag %q)...\n", c.params.BaselineTag)
	baseline, err := c.source.BaselineRun(ctx, c.params.Entity, c.params.Project, c.params.BaselineTag)
	if err != nil {
		return nil, fmt.Errorf("baseline lookup failed: %w", err)
	}
	fmt.Printf("Found baseline run: %s (%s)\n", baseline.ID, baseline.DisplayName)

	fmt.Printf("Fetching comparison run %s...\n", c.params.RunID)
	comparison, err := c.source.Run(ctx, c.params.Entity, c.params.Project, c.params.RunID)
	if err != nil {
		return nil, fmt.Errorf("run lookup failed: %w", err)
	}
	fmt.Printf("Found comparison run: %s (%s)\n", comparison.ID, comparison.DisplayName)

	url := wandb.CompareURL(c.params.AppURL, c.params.Entity, c.params.Project, baseline.ID, comparison.ID)
	fmt.Printf("Comparison URL: %s\n", url)

	return &Result{Baseline: baseline, Comparison: comparison, URL: url}, nil
}

// WriteReport persists url as the entire contents of path. Downstream steps
// read the file verbatim, so nothing else is written, not even a trailing
// newline.
func WriteReport(path, url string) error {
	if err := os.WriteFile(path, []byte(url), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
