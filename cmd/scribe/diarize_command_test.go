package main

import (
	"errors"
	"strings"
	"testing"

	"scribe/internal/services"
	"scribe/internal/testsupport"
)

func TestDiarizePrintsFilteredPrimaryTranscript(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithScript(testsupport.DiarizeCommand, `echo "Loading model 100%|██████████|"
echo "UserWarning: torchaudio._backend.set_audio_backend has been deprecated"
echo "[00:00] Speaker 1: good morning"
echo "  and welcome"
echo "[00:04] Speaker 2: thanks"
`),
		testsupport.WithScript(testsupport.WhisperCommand, whisperStub),
	)

	out, stderr, err := runCLI(t, []string{"diarize", "-a", env.audioPath}, env.configPath)
	if err != nil {
		t.Fatalf("diarize: %v (stderr %s)", err, stderr)
	}
	want := "[00:00] Speaker 1: good morning\nand welcome\n[00:04] Speaker 2: thanks\n"
	if out != want {
		t.Fatalf("unexpected transcript:\n%q", out)
	}
	if strings.Contains(stderr, "Diarization unavailable") {
		t.Fatalf("primary success must not report a fallback: %s", stderr)
	}
}

func TestDiarizeFallsBackWhenPipelineMissing(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithScript(testsupport.WhisperCommand, whisperStub))

	out, stderr, err := runCLI(t, []string{"diarize", "-a", env.audioPath}, env.configPath)
	if err != nil {
		t.Fatalf("diarize: %v", err)
	}
	if out != "[00:00] Speaker 1: hello\n[00:15] Speaker 2: again\n" {
		t.Fatalf("unexpected fallback transcript:\n%q", out)
	}
	requireContains(t, stderr, "Diarization unavailable, using whisper-only fallback")
	requireContains(t, stderr, "Reason: Diarization pipeline unavailable")
}

func TestDiarizeReportsPrimaryStderrAsReason(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithScript(testsupport.DiarizeCommand, "echo 'CUDA out of memory' >&2\nexit 1\n"),
		testsupport.WithScript(testsupport.WhisperCommand, whisperStub),
	)

	out, stderr, err := runCLI(t, []string{"diarize", "-a", env.audioPath, "--whisper-model", "tiny"}, env.configPath)
	if err != nil {
		t.Fatalf("diarize: %v", err)
	}
	requireContains(t, stderr, "Reason: CUDA out of memory")
	requireContains(t, out, "[00:00] Speaker 1: hello")
	if strings.Contains(out, "CUDA") {
		t.Fatalf("diagnostics leaked into transcript: %q", out)
	}
}

func TestDiarizeEmitsErrorLineWhenWhisperFails(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithScript(testsupport.WhisperCommand, "echo 'model exploded' >&2\nexit 3\n"))

	out, stderr, err := runCLI(t, []string{"diarize", "-a", env.audioPath}, env.configPath)
	if err != nil {
		t.Fatalf("fallback failure must still exit 0: %v", err)
	}
	if out != "[00:00] Speaker 1: Transcription error: whisper: exit status 3: model exploded\n" {
		t.Fatalf("expected a single error line, got %q", out)
	}
	requireContains(t, stderr, "Whisper fallback failed")
}

func TestDiarizeFatalPreflight(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries(testsupport.DiarizeCommand))

	_, _, err := runCLI(t, []string{"diarize", "-a", env.audioPath}, env.configPath)
	if !errors.Is(err, services.ErrDependencyMissing) {
		t.Fatalf("expected missing whisper to be fatal, got %v", err)
	}
	if services.ExitCode(err) != 1 {
		t.Fatalf("expected exit code 1")
	}

	env = setupCLITestEnv(t, testsupport.WithStubbedBinaries())
	_, _, err = runCLI(t, []string{"diarize", "-a", env.audioPath + ".missing"}, env.configPath)
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error for missing audio, got %v", err)
	}
}
