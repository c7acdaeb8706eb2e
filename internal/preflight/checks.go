package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"scribe/internal/config"
	"scribe/internal/deps"
	"scribe/internal/services"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAudioFile verifies that the input audio exists and is readable.
func CheckAudioFile(path string) Result {
	const name = "Audio file"
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "audio path is required"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("audio file not found: %s", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is a directory", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// DiarizeRequirements lists the tools behind the fallback-capable wrapper.
// The primary pipeline is optional: its absence only routes to the fallback.
func DiarizeRequirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "Diarization pipeline",
			Command:     cfg.Diarization.Command,
			Description: "Preferred recognition with speaker diarization",
			Optional:    true,
		},
		{
			Name:        "Whisper",
			Command:     cfg.Fallback.Command,
			Description: "Required for whisper-only fallback transcription",
		},
	}
}

// AlignRequirements lists the tools behind the alignment pipeline.
func AlignRequirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "ASR",
			Command:     cfg.Alignment.ASRCommand,
			Description: "Required for word-level recognition",
		},
		{
			Name:        "Diarization model",
			Command:     cfg.Alignment.DiarizationCommand,
			Description: "Required for speaker segments",
		},
	}
}

// CheckSystemDeps evaluates every external dependency for the given config.
// The CLI deps command renders this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := append(DiarizeRequirements(cfg), AlignRequirements(cfg)...)
	statuses := deps.CheckBinaries(requirements)
	return append(statuses, deps.CheckFFmpegForWhisper(cfg.Fallback.Command))
}

func requireDeps(stage string, statuses []deps.Status) error {
	missing := deps.Missing(statuses)
	if len(missing) == 0 {
		return nil
	}
	var details []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			details = append(details, fmt.Sprintf("%s: %s", status.Name, status.Detail))
		}
	}
	return services.Wrap(services.ErrDependencyMissing, stage, "check dependencies", strings.Join(details, "; "), nil)
}

func requireResult(stage string, result Result) error {
	if result.Passed {
		return nil
	}
	return services.Wrap(services.ErrInput, stage, "validate input", result.Detail, nil)
}
