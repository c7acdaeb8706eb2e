package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Requirement defines an external dependency scribe relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// SplitCommand parses a configured command line into its executable and
// leading arguments, honouring shell quoting.
func SplitCommand(command string) (string, []string, error) {
	words, err := shellwords.Parse(strings.TrimSpace(command))
	if err != nil {
		return "", nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(words) == 0 {
		return "", nil, fmt.Errorf("command not configured")
	}
	return words[0], words[1:], nil
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Commands may carry arguments; script arguments (*.py) must exist on disk.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		binary, args, err := SplitCommand(cmd)
		if err != nil {
			status.Detail = err.Error()
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(binary); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", binary)
			results = append(results, status)
			continue
		}
		if script, ok := missingScript(args); ok {
			status.Detail = fmt.Sprintf("script %q not found", script)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing returns the names of unavailable, non-optional dependencies.
func Missing(statuses []Status) []string {
	var names []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			names = append(names, status.Name)
		}
	}
	return names
}

func missingScript(args []string) (string, bool) {
	for _, arg := range args {
		if filepath.Ext(arg) != ".py" {
			continue
		}
		if info, err := os.Stat(arg); err != nil || info.IsDir() {
			return arg, true
		}
	}
	return "", false
}
