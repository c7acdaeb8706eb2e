package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"scribe/internal/pipeline"
	"scribe/internal/services"
	"scribe/internal/testsupport"
)

const (
	asrStub = `printf 'utt 1 0.00 0.90 hello\nutt 1 1.00 0.40 world\nutt 1 2.00 0.50 bye\n'
`
	diarizeStub = `if [ -z "$HF_TOKEN" ]; then echo 'missing token' >&2; exit 1; fi
printf 'SPEAKER talk 1 0.00 1.80 <NA> <NA> spk_a <NA> <NA>\nSPEAKER talk 1 1.80 2.00 <NA> <NA> spk_b <NA> <NA>\n'
`
)

func alignEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	return setupCLITestEnv(t,
		testsupport.WithScript(testsupport.ASRCommand, asrStub),
		testsupport.WithScript(testsupport.AlignDiarizeCommand, diarizeStub),
	)
}

func TestAlignWritesJSONResult(t *testing.T) {
	env := alignEnv(t)
	payload := fmt.Sprintf(`{"audioPath":%q,"diarizationModel":"v2"}`, env.audioPath)

	out, stderr, err := runCLI(t, []string{"align", payload}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v (stderr %s)", err, stderr)
	}
	var result pipeline.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if result.WordCount != 3 {
		t.Fatalf("unexpected word count %d", result.WordCount)
	}
	if result.Transcript != "Speaker 0: hello world\n\nSpeaker 1: bye" {
		t.Fatalf("unexpected transcript %q", result.Transcript)
	}
}

func TestAlignReadsPayloadFromStdin(t *testing.T) {
	env := alignEnv(t)
	payload := fmt.Sprintf(`{"audioPath":%q,"hfToken":"from-payload"}`, env.audioPath)

	out, _, err := runCLIWithInput(t, []string{"align", "-"}, env.configPath, payload)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, `"wordCount":3`)
}

func TestAlignRejectsInvalidInput(t *testing.T) {
	env := alignEnv(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"malformed", "{oops"},
		{"missing audio", `{"audioPath":""}`},
		{"nonexistent audio", `{"audioPath":"/no/such/file.wav"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, []string{"align", tc.payload}, env.configPath)
			if !errors.Is(err, services.ErrInput) {
				t.Fatalf("expected input error, got %v", err)
			}
		})
	}
}

func TestAlignRequiresToken(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithHFToken(""),
		testsupport.WithScript(testsupport.ASRCommand, asrStub),
		testsupport.WithScript(testsupport.AlignDiarizeCommand, diarizeStub),
	)
	payload := fmt.Sprintf(`{"audioPath":%q}`, env.audioPath)
	_, _, err := runCLI(t, []string{"align", payload}, env.configPath)
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected missing token to be an input error, got %v", err)
	}
}
