package config

const (
	defaultWorkDir                 = "~/.cache/scribe/work"
	defaultLogDir                  = "~/.local/share/scribe/logs"
	defaultCacheDir                = "~/.cache/scribe/models"
	defaultDiarizationCommand      = "build/pyenv/whisper-diarization/bin/python build/bin/whisper-diarize.py"
	defaultDiarizationTimeout      = 300
	defaultWhisperModel            = "medium.en"
	defaultDevice                  = "cpu"
	defaultCacheLockSeconds        = 30
	defaultFallbackCommand         = "whisper"
	defaultSilenceThresholdSeconds = 10
	defaultPlaceholderText         = "No transcription available"
	defaultASRCommand              = "reverb-asr"
	defaultAlignDiarizationCommand = "reverb-diarize"
	defaultASRModel                = "reverb_asr_v1"
	defaultDiarizationModel        = "reverb-diarization-v2"
	defaultModelDir                = "build/models"
	defaultAlignmentTimeout        = 1800
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
	defaultLogRetentionDays        = 30
	defaultLogMaxSizeMB            = 50
	defaultLogMaxBackups           = 5
)

// DefaultASRModel is the recognizer model retried when a configured model fails to load.
const DefaultASRModel = defaultASRModel

// DefaultDiarizationModel is the diarization model retried when a configured model fails to load.
const DefaultDiarizationModel = defaultDiarizationModel

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir,
		},
		Diarization: Diarization{
			Command:          defaultDiarizationCommand,
			TimeoutSeconds:   defaultDiarizationTimeout,
			WhisperModel:     defaultWhisperModel,
			Device:           defaultDevice,
			CacheLockSeconds: defaultCacheLockSeconds,
		},
		Fallback: Fallback{
			Command:                 defaultFallbackCommand,
			SilenceThresholdSeconds: defaultSilenceThresholdSeconds,
			PlaceholderText:         defaultPlaceholderText,
		},
		Alignment: Alignment{
			ASRCommand:         defaultASRCommand,
			DiarizationCommand: defaultAlignDiarizationCommand,
			ASRModel:           defaultASRModel,
			DiarizationModel:   defaultDiarizationModel,
			ModelDir:           defaultModelDir,
			TimeoutSeconds:     defaultAlignmentTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
			MaxSizeMB:     defaultLogMaxSizeMB,
			MaxBackups:    defaultLogMaxBackups,
		},
	}
}
