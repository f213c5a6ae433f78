// Package naming holds the Loom resource naming conventions shared with the
// platform's Kubernetes controllers. Log queries match on pod labels derived
// from these names, so they must stay in lockstep with the controller side.
package naming

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// daskRunPrefix prefixes every Dask cluster created for a workflow run.
const daskRunPrefix = "loom-run-dask-"

// CanonicalWorkflowID validates id as a workflow UUID and returns its
// canonical lowercase form.
func CanonicalWorkflowID(id string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("invalid workflow id %q: %w", id, err)
	}
	return u.String(), nil
}

// DaskClusterName returns the dask.org/cluster-name label value for the Dask
// cluster belonging to a workflow run. An id that is not a UUID is used
// as-is, so lookups against hand-named clusters still work.
func DaskClusterName(workflowID string) string {
	if canonical, err := CanonicalWorkflowID(workflowID); err == nil {
		return daskRunPrefix + canonical
	}
	return daskRunPrefix + workflowID
}
