package pipeline

import (
	"encoding/json"
	"strings"

	"scribe/internal/config"
	"scribe/internal/services"
)

// Payload is the JSON invocation accepted by `scribe align`.
type Payload struct {
	AudioPath        string `json:"audioPath"`
	ASRModel         string `json:"asrModel,omitempty"`
	DiarizationModel string `json:"diarizationModel,omitempty"`
	HFToken          string `json:"hfToken,omitempty"`
}

// Result is the JSON document written on success.
type Result struct {
	Transcript string `json:"transcript"`
	WordCount  int    `json:"wordCount"`
}

// ParsePayload decodes a payload. Unknown fields are ignored.
func ParsePayload(raw string) (Payload, error) {
	var payload Payload
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return payload, services.Wrap(services.ErrInput, "align", "parse payload", "payload is required", nil)
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return payload, services.Wrap(services.ErrInput, "align", "parse payload", "invalid JSON", err)
	}
	payload.AudioPath = strings.TrimSpace(payload.AudioPath)
	return payload, nil
}

// WithDefaults fills empty payload fields from the configuration.
func (p Payload) WithDefaults(cfg *config.Config) Payload {
	if cfg == nil {
		return p
	}
	if strings.TrimSpace(p.ASRModel) == "" {
		p.ASRModel = cfg.Alignment.ASRModel
	}
	if strings.TrimSpace(p.DiarizationModel) == "" {
		p.DiarizationModel = cfg.Alignment.DiarizationModel
	}
	if strings.TrimSpace(p.HFToken) == "" {
		p.HFToken = cfg.Alignment.HFToken
	}
	return p
}
