package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scribe/internal/services"
)

type fakeRecognizer struct {
	words        string
	segments     string
	failASR      map[string]bool
	failDiarize  map[string]bool
	asrModels    []string
	diarizeCalls []string
	tokens       []string
}

func (f *fakeRecognizer) Transcribe(_ context.Context, _, model string) ([]byte, error) {
	f.asrModels = append(f.asrModels, model)
	if f.failASR[model] {
		return nil, errors.New("cannot load " + model)
	}
	return []byte(f.words), nil
}

func (f *fakeRecognizer) Diarize(_ context.Context, _, model, token string) ([]byte, error) {
	f.diarizeCalls = append(f.diarizeCalls, model)
	f.tokens = append(f.tokens, token)
	if f.failDiarize[model] {
		return nil, errors.New("cannot load " + model)
	}
	return []byte(f.segments), nil
}

type stageRecorder map[string]int

func (s stageRecorder) ObserveStage(stage string, _ time.Duration) { s[stage]++ }

const sampleCTM = `utt 1 0.00 0.90 hello
utt 1 1.00 0.80 world
utt 1 2.00 0.50 how
utt 1 2.50 0.50 are
utt 1 3.00 0.50 you`

const sampleRTTM = `SPEAKER talk 1 0.00 1.50 <NA> <NA> spk_a <NA> <NA>
SPEAKER talk 1 1.50 3.00 <NA> <NA> spk_b <NA> <NA>`

func TestRunAlignsWordsToSpeakers(t *testing.T) {
	rec := &fakeRecognizer{words: sampleCTM, segments: sampleRTTM}
	stages := stageRecorder{}
	p := &Pipeline{Recognizer: rec, ModelDir: t.TempDir(), Metrics: stages}

	result, err := p.Run(context.Background(), Payload{
		AudioPath:        "/a.wav",
		ASRModel:         "reverb_asr_v1",
		DiarizationModel: "v2",
		HFToken:          "tok",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "Speaker 0: hello world\n\nSpeaker 1: how are you"
	if result.Transcript != want {
		t.Fatalf("unexpected transcript:\n%s", result.Transcript)
	}
	if result.WordCount != 5 {
		t.Fatalf("unexpected word count %d", result.WordCount)
	}
	if rec.diarizeCalls[0] != "Revai/reverb-diarization-v2" || rec.tokens[0] != "tok" {
		t.Fatalf("unexpected diarization call %v %v", rec.diarizeCalls, rec.tokens)
	}
	for _, stage := range []string{"asr", "diarization", "assemble", "total"} {
		if stages[stage] != 1 {
			t.Fatalf("expected stage %s observed once, got %v", stage, stages)
		}
	}
}

func TestRunEmptyRecognitionYieldsEmptyTranscript(t *testing.T) {
	rec := &fakeRecognizer{words: "", segments: sampleRTTM}
	p := &Pipeline{Recognizer: rec}
	result, err := p.Run(context.Background(), Payload{AudioPath: "/a.wav", ASRModel: "m", DiarizationModel: "v2"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Transcript != "" || result.WordCount != 0 {
		t.Fatalf("expected empty result, got %#v", result)
	}
}

func TestRunRetriesWithDefaultModels(t *testing.T) {
	rec := &fakeRecognizer{
		words:       sampleCTM,
		segments:    sampleRTTM,
		failASR:     map[string]bool{"custom-asr": true},
		failDiarize: map[string]bool{"Revai/reverb-diarization-v1": true},
	}
	p := &Pipeline{Recognizer: rec, ModelDir: t.TempDir()}
	if _, err := p.Run(context.Background(), Payload{AudioPath: "/a.wav", ASRModel: "custom-asr", DiarizationModel: "v1"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Join(rec.asrModels, ",") != "custom-asr,reverb_asr_v1" {
		t.Fatalf("unexpected asr attempts %v", rec.asrModels)
	}
	if strings.Join(rec.diarizeCalls, ",") != "Revai/reverb-diarization-v1,Revai/reverb-diarization-v2" {
		t.Fatalf("unexpected diarization attempts %v", rec.diarizeCalls)
	}
}

func TestRunFailsWhenDefaultModelFails(t *testing.T) {
	rec := &fakeRecognizer{failASR: map[string]bool{"reverb_asr_v1": true}}
	p := &Pipeline{Recognizer: rec, ModelDir: t.TempDir()}
	_, err := p.Run(context.Background(), Payload{AudioPath: "/a.wav", ASRModel: "reverb_asr_v1", DiarizationModel: "v2"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(rec.asrModels) != 1 {
		t.Fatalf("default model should not be retried against itself: %v", rec.asrModels)
	}
	if len(rec.diarizeCalls) != 0 {
		t.Fatal("diarization must not run after recognizer failure")
	}
}

func TestRunRejectsMalformedWordRecords(t *testing.T) {
	rec := &fakeRecognizer{words: "[{\"word\": ", segments: sampleRTTM}
	p := &Pipeline{Recognizer: rec}
	_, err := p.Run(context.Background(), Payload{AudioPath: "/a.wav", ASRModel: "m", DiarizationModel: "v2"})
	if !errors.Is(err, services.ErrExternalProcess) {
		t.Fatalf("expected external process error, got %v", err)
	}
}

func TestResolveASRModel(t *testing.T) {
	ctx := context.Background()
	modelDir := t.TempDir()
	t.Setenv(ASREnvVar, "")

	res, err := ResolveASRModel(ctx, modelDir, "reverb_asr_v1")
	if err != nil || res.Value != "reverb_asr_v1" {
		t.Fatalf("expected bare model name, got %#v %v", res, err)
	}

	t.Setenv(ASREnvVar, "/opt/asr")
	res, _ = ResolveASRModel(ctx, modelDir, "reverb_asr_v1")
	if res.Value != "/opt/asr" {
		t.Fatalf("expected env override, got %#v", res)
	}

	defaultDir := filepath.Join(modelDir, "reverb-asr")
	writeMarker(t, defaultDir, "config.yaml")
	res, _ = ResolveASRModel(ctx, modelDir, "reverb_asr_v1")
	if res.Value != defaultDir {
		t.Fatalf("expected local default dir, got %#v", res)
	}

	named := filepath.Join(modelDir, "reverb_asr_v1")
	writeMarker(t, named, "config.yaml")
	res, _ = ResolveASRModel(ctx, modelDir, "reverb_asr_v1")
	if res.Value != named || res.Provider != "local model" {
		t.Fatalf("expected named local dir, got %#v", res)
	}
}

func TestResolveASRModelIgnoresDirWithoutConfig(t *testing.T) {
	t.Setenv(ASREnvVar, "")
	modelDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(modelDir, "reverb_asr_v1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	res, _ := ResolveASRModel(context.Background(), modelDir, "reverb_asr_v1")
	if res.Value != "reverb_asr_v1" {
		t.Fatalf("expected name when local dir lacks config.yaml, got %#v", res)
	}
}

func TestResolveDiarizationModel(t *testing.T) {
	ctx := context.Background()
	modelDir := t.TempDir()
	envVar := DiarizationEnvVar("reverb-diarization-v1")
	if envVar != "SCRIBE_DIARIZATION_REVERB_DIARIZATION_V1_PATH" {
		t.Fatalf("unexpected env var %q", envVar)
	}
	t.Setenv(envVar, "")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"alias v1", "v1", "Revai/reverb-diarization-v1"},
		{"alias upper", "V2", "Revai/reverb-diarization-v2"},
		{"full id", "reverb-diarization-v2", "Revai/reverb-diarization-v2"},
		{"qualified", "pyannote/speaker-diarization-3.1", "pyannote/speaker-diarization-3.1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ResolveDiarizationModel(ctx, modelDir, tc.in)
			if err != nil || res.Value != tc.want {
				t.Fatalf("got %#v %v want %s", res, err, tc.want)
			}
		})
	}

	t.Setenv(envVar, "/srv/diar-v1")
	if res, _ := ResolveDiarizationModel(ctx, modelDir, "v1"); res.Value != "/srv/diar-v1" {
		t.Fatalf("expected env override, got %#v", res)
	}

	local := filepath.Join(modelDir, "reverb-diarization-v1")
	if err := os.MkdirAll(local, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if res, _ := ResolveDiarizationModel(ctx, modelDir, "v1"); res.Value != local {
		t.Fatalf("expected local model dir, got %#v", res)
	}
}

func writeMarker(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte("model: x\n"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
}
