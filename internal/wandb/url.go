package wandb

import (
	"fmt"
	"strings"
	"time"
)

// DefaultBaseURL is the GraphQL endpoint of the hosted service.
const DefaultBaseURL = "https://api.wandb.ai"

// defaultAppURL is the web UI origin of the hosted service.
const defaultAppURL = "https://wandb.ai"

const defaultTimeout = 30 * time.Second

// AppURL maps an API base URL to the web UI origin serving run pages. The
// hosted service splits the two hosts; self-hosted deployments serve both
// from one.
func AppURL(baseURL string) string {
	trimmed := strings.TrimSuffix(baseURL, "/")
	if trimmed == "" || trimmed == DefaultBaseURL {
		return defaultAppURL
	}
	return trimmed
}

// CompareURL returns the UI page comparing two runs side by side. The run
// parameter repeats; the service reads both values. Run IDs are
// service-issued slugs and are embedded verbatim.
func CompareURL(appURL, entity, project, baselineID, comparisonID string) string {
	return fmt.Sprintf("%s/%s/%s/compare?run=%s&run=%s",
		strings.TrimSuffix(appURL, "/"), entity, project, baselineID, comparisonID)
}
