package pipeline

import (
	"errors"
	"testing"

	"scribe/internal/config"
	"scribe/internal/services"
)

func TestParsePayload(t *testing.T) {
	payload, err := ParsePayload(`{"audioPath":" /a.wav ","asrModel":"m","diarizationModel":"v1","hfToken":"t"}`)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if payload.AudioPath != "/a.wav" || payload.ASRModel != "m" || payload.DiarizationModel != "v1" || payload.HFToken != "t" {
		t.Fatalf("unexpected payload %#v", payload)
	}
}

func TestParsePayloadRejectsInvalidInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "{not json", "[1,2]"} {
		if _, err := ParsePayload(raw); !errors.Is(err, services.ErrInput) {
			t.Fatalf("expected input error for %q, got %v", raw, err)
		}
	}
}

func TestParsePayloadIgnoresExtraFields(t *testing.T) {
	payload, err := ParsePayload(`{"audioPath":"/data/a.wav","hfToken":"t","outputDir":"/tmp","meta":{"id":7}}`)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if payload.AudioPath != "/data/a.wav" || payload.HFToken != "t" {
		t.Fatalf("unexpected payload %#v", payload)
	}
}

func TestPayloadWithDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Alignment.HFToken = "cfg-token"

	filled := Payload{AudioPath: "/a.wav"}.WithDefaults(&cfg)
	if filled.ASRModel != config.DefaultASRModel || filled.DiarizationModel != config.DefaultDiarizationModel {
		t.Fatalf("expected default models, got %#v", filled)
	}
	if filled.HFToken != "cfg-token" {
		t.Fatalf("expected config token, got %q", filled.HFToken)
	}

	kept := Payload{AudioPath: "/a.wav", HFToken: "payload-token", ASRModel: "x"}.WithDefaults(&cfg)
	if kept.HFToken != "payload-token" || kept.ASRModel != "x" {
		t.Fatalf("payload values must win, got %#v", kept)
	}
}
