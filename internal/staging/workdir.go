package staging

import (
	"fmt"
	"os"
	"strings"
)

const dirPrefix = "scribe-"

// NewWorkDir creates a fresh per-attempt directory under root. The returned
// release func removes it and is safe to call more than once.
func NewWorkDir(root, runID string) (string, func(), error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", nil, fmt.Errorf("create work root: %w", err)
	}
	pattern := dirPrefix + "*"
	if runID = strings.TrimSpace(runID); runID != "" {
		pattern = dirPrefix + runID + "-*"
	}
	dir, err := os.MkdirTemp(root, pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create work dir: %w", err)
	}
	release := func() {
		_ = os.RemoveAll(dir)
	}
	return dir, release, nil
}
