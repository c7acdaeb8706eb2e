package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"scribe/internal/deps"
)

// HubOrganization owns the published diarization models.
const HubOrganization = "Revai"

// ASREnvVar points at a locally installed recognizer model.
const ASREnvVar = "SCRIBE_ASR_MODEL_PATH"

const asrLocalDirName = "reverb-asr"

var diarizationAliases = map[string]string{
	"v1": "reverb-diarization-v1",
	"v2": "reverb-diarization-v2",
}

// ASRModelProviders lists the sources consulted for a recognizer model, in
// order: a local model directory containing config.yaml, the
// SCRIBE_ASR_MODEL_PATH override, then the bare model name.
func ASRModelProviders(modelDir, name string) []deps.Provider {
	name = strings.TrimSpace(name)
	var named deps.Provider
	if name != "" {
		named = localModel("local model", filepath.Join(modelDir, name), "config.yaml")
	}
	return []deps.Provider{
		named,
		localModel("local default model", filepath.Join(modelDir, asrLocalDirName), "config.yaml"),
		envModel(ASREnvVar),
		deps.Static("model name", name),
	}
}

// DiarizationModelProviders lists the sources consulted for a diarization
// model: a qualified hub id as given, a local directory under modelDir, the
// SCRIBE_DIARIZATION_<ID>_PATH override, then the hub id.
func DiarizationModelProviders(modelDir, name string) []deps.Provider {
	id := DiarizationModelID(name)
	if strings.Contains(id, "/") {
		return []deps.Provider{deps.Static("hub id", id)}
	}
	var local deps.Provider
	if id != "" {
		local = localModel("local model", filepath.Join(modelDir, id), "")
	}
	return []deps.Provider{
		local,
		envModel(DiarizationEnvVar(id)),
		deps.Static("hub id", HubOrganization+"/"+id),
	}
}

// DiarizationModelID expands the v1/v2 aliases.
func DiarizationModelID(name string) string {
	name = strings.TrimSpace(name)
	if full, ok := diarizationAliases[strings.ToLower(name)]; ok {
		return full
	}
	return name
}

// DiarizationEnvVar names the local path override for a diarization model id.
func DiarizationEnvVar(id string) string {
	upper := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(id))
	return "SCRIBE_DIARIZATION_" + upper + "_PATH"
}

// ResolveASRModel returns the model reference handed to the recognizer.
func ResolveASRModel(ctx context.Context, modelDir, name string) (deps.Resolution, error) {
	return deps.First(ctx, ASRModelProviders(modelDir, name)...)
}

// ResolveDiarizationModel returns the model reference handed to diarization.
func ResolveDiarizationModel(ctx context.Context, modelDir, name string) (deps.Resolution, error) {
	return deps.First(ctx, DiarizationModelProviders(modelDir, name)...)
}

func localModel(label, dir, marker string) deps.Provider {
	return deps.Func{
		Label: label,
		IsAvailable: func(context.Context) bool {
			target := dir
			if marker != "" {
				target = filepath.Join(dir, marker)
			}
			_, err := os.Stat(target)
			return err == nil
		},
		Resolver: func(context.Context) (string, error) {
			return dir, nil
		},
	}
}

func envModel(name string) deps.Provider {
	return deps.Func{
		Label: "env " + name,
		IsAvailable: func(context.Context) bool {
			return strings.TrimSpace(os.Getenv(name)) != ""
		},
		Resolver: func(context.Context) (string, error) {
			return strings.TrimSpace(os.Getenv(name)), nil
		},
	}
}
