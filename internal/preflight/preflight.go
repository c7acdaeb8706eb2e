package preflight

import (
	"strings"

	"scribe/internal/config"
	"scribe/internal/deps"
	"scribe/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll reports filesystem readiness for the configured directories.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Model cache", cfg.Paths.CacheDir),
	}
}

// DiarizeCheck is the outcome of the wrapper preflight.
type DiarizeCheck struct {
	// PrimaryReason is set when the preferred pipeline cannot run; the
	// cascade records it and starts at the fallback.
	PrimaryReason string
	Statuses      []deps.Status
}

// Diarize validates input for the fallback-capable wrapper. Any returned
// error is fatal and maps to exit code 1.
func Diarize(cfg *config.Config, audioPath string) (DiarizeCheck, error) {
	const stage = "preflight"
	if err := requireResult(stage, CheckAudioFile(audioPath)); err != nil {
		return DiarizeCheck{}, err
	}
	if result := CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir); !result.Passed {
		return DiarizeCheck{}, services.Wrap(services.ErrInput, stage, "work directory", result.Detail, nil)
	}
	statuses := deps.CheckBinaries(DiarizeRequirements(cfg))
	check := DiarizeCheck{Statuses: statuses}
	if err := requireDeps(stage, statuses); err != nil {
		return check, err
	}
	for _, status := range statuses {
		if status.Optional && !status.Available {
			check.PrimaryReason = status.Name + " unavailable: " + status.Detail
		}
	}
	return check, nil
}

// Align validates input for the alignment pipeline.
func Align(cfg *config.Config, audioPath, hfToken string) error {
	const stage = "preflight"
	if err := requireResult(stage, CheckAudioFile(audioPath)); err != nil {
		return err
	}
	if strings.TrimSpace(hfToken) == "" {
		return services.Wrap(services.ErrInput, stage, "validate input", "hfToken is required (set it in the payload, alignment.hf_token or HF_TOKEN)", nil)
	}
	return requireDeps(stage, deps.CheckBinaries(AlignRequirements(cfg)))
}
