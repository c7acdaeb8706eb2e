package pipeline

import (
	"context"
	"log/slog"
	"time"

	"scribe/internal/config"
	"scribe/internal/diarization"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/transcript"
	"scribe/internal/words"
)

// Recognizer runs the external word recognizer and diarization model.
// *recognizer.Client satisfies it.
type Recognizer interface {
	Transcribe(ctx context.Context, audio, model string) ([]byte, error)
	Diarize(ctx context.Context, audio, model, token string) ([]byte, error)
}

// StageObserver receives stage durations. *metrics.Recorder satisfies it.
type StageObserver interface {
	ObserveStage(stage string, elapsed time.Duration)
}

// Pipeline aligns recognized words with diarized speakers.
type Pipeline struct {
	Recognizer Recognizer
	ModelDir   string
	Logger     *slog.Logger
	Metrics    StageObserver
}

// New builds a Pipeline from configuration.
func New(cfg *config.Config, rec Recognizer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		Recognizer: rec,
		ModelDir:   cfg.Alignment.ModelDir,
		Logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes the alignment pipeline for one payload. The payload must
// already carry models and token (see Payload.WithDefaults).
func (p *Pipeline) Run(ctx context.Context, payload Payload) (Result, error) {
	start := time.Now()
	logger := logging.WithContext(ctx, p.Logger)

	raw, err := p.recognize(services.WithStage(ctx, "asr"), payload)
	if err != nil {
		return Result{}, err
	}
	ws, err := words.Parse(raw)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalProcess, "asr", "parse output", "", err)
	}

	raw, err = p.diarize(services.WithStage(ctx, "diarization"), payload)
	if err != nil {
		return Result{}, err
	}
	segments, err := diarization.Parse(raw)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalProcess, "diarization", "parse output", "", err)
	}

	assembleStart := time.Now()
	text := transcript.Assemble(transcript.Label(ws, segments))
	p.observe("assemble", time.Since(assembleStart))
	p.observe("total", time.Since(start))

	logger.Info("alignment complete",
		logging.Int("words", len(ws)),
		logging.Int("segments", len(segments)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return Result{Transcript: text, WordCount: len(ws)}, nil
}

func (p *Pipeline) recognize(ctx context.Context, payload Payload) ([]byte, error) {
	defer p.timed("asr")()
	return p.withModelRetry(ctx, "asr", payload.ASRModel, config.DefaultASRModel,
		func(name string) (string, error) {
			res, err := ResolveASRModel(ctx, p.ModelDir, name)
			return res.Value, err
		},
		func(model string) ([]byte, error) {
			return p.Recognizer.Transcribe(ctx, payload.AudioPath, model)
		},
	)
}

func (p *Pipeline) diarize(ctx context.Context, payload Payload) ([]byte, error) {
	defer p.timed("diarization")()
	return p.withModelRetry(ctx, "diarization", payload.DiarizationModel, config.DefaultDiarizationModel,
		func(name string) (string, error) {
			res, err := ResolveDiarizationModel(ctx, p.ModelDir, name)
			return res.Value, err
		},
		func(model string) ([]byte, error) {
			return p.Recognizer.Diarize(ctx, payload.AudioPath, model, payload.HFToken)
		},
	)
}

// withModelRetry runs fn with the resolved model and, when that fails, once
// more with the resolved default model.
func (p *Pipeline) withModelRetry(
	ctx context.Context,
	stage, name, defaultName string,
	resolve func(string) (string, error),
	fn func(string) ([]byte, error),
) ([]byte, error) {
	logger := logging.WithContext(ctx, p.Logger)

	model, err := resolve(name)
	if err != nil {
		return nil, services.Wrap(services.ErrDependencyMissing, stage, "resolve model", name, err)
	}
	logger.Debug("model resolved", logging.String("model", model))
	out, err := fn(model)
	if err == nil {
		return out, nil
	}

	fallbackModel, rerr := resolve(defaultName)
	if rerr != nil || fallbackModel == model {
		return nil, err
	}
	logging.WarnWithContext(logger, "model failed, retrying with default", "model_fallback",
		logging.String("model", model),
		logging.String("default_model", fallbackModel),
		logging.Error(err),
		logging.String(logging.FieldImpact, "transcript produced with the default model"),
	)
	out, retryErr := fn(fallbackModel)
	if retryErr != nil {
		return nil, retryErr
	}
	return out, nil
}

func (p *Pipeline) timed(stage string) func() {
	start := time.Now()
	return func() { p.observe(stage, time.Since(start)) }
}

func (p *Pipeline) observe(stage string, elapsed time.Duration) {
	if p.Metrics != nil {
		p.Metrics.ObserveStage(stage, elapsed)
	}
}
