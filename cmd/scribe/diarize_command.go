package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/fallback"
	"scribe/internal/logging"
	"scribe/internal/metrics"
	"scribe/internal/preflight"
	"scribe/internal/services/diarize"
	"scribe/internal/services/whisper"
	"scribe/internal/staging"
)

func newDiarizeCommand(ctx *commandContext) *cobra.Command {
	var (
		audioPath    string
		whisperModel string
		device       string
		noStem       bool
	)

	cmd := &cobra.Command{
		Use:   "diarize",
		Short: "Transcribe audio with speaker labels, falling back to whisper-only",
		Long: "Runs the diarization pipeline and prints the speaker-labeled transcript.\n" +
			"When the pipeline is missing, fails, times out or prints nothing usable,\n" +
			"whisper transcribes the audio and speakers alternate on long silences.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}
			runCtx := ctx.runContext(cmd.Context())

			if res := staging.CleanStale(runCtx, cfg.Paths.WorkDir, staging.StaleAfter, logger); len(res.Removed) > 0 {
				logger.Debug("removed stale work directories", logging.Int("count", len(res.Removed)))
			}

			check, err := preflight.Diarize(cfg, audioPath)
			if err != nil {
				return err
			}

			model := cfg.Diarization.WhisperModel
			fallbackModel := cfg.Fallback.Model
			if cmd.Flags().Changed("whisper-model") {
				model = strings.TrimSpace(whisperModel)
				fallbackModel = ""
			}
			if !cmd.Flags().Changed("device") {
				device = cfg.Diarization.Device
			}
			if !cmd.Flags().Changed("no-stem") {
				noStem = cfg.Diarization.NoStem
			}

			rec := metrics.NewForPath(cfg.Metrics.Textfile)
			defer flushMetrics(rec, cfg, logger)

			orchestrator := &fallback.Orchestrator{
				Primary: diarize.New(diarize.Config{
					Command:  cfg.Diarization.Command,
					Timeout:  cfg.PrimaryTimeout(),
					WorkDir:  cfg.Paths.WorkDir,
					LockPath: cfg.CacheLockPath(),
					LockWait: cfg.CacheLockTimeout(),
				}, logger),
				Fallback: whisper.NewService(whisper.Config{
					Command: cfg.Fallback.Command,
					Model:   fallbackModel,
					WorkDir: cfg.Paths.WorkDir,
				}, logger),
				Diagnostics:      cmd.ErrOrStderr(),
				Logger:           logger,
				SilenceThreshold: cfg.Fallback.SilenceThresholdSeconds,
				Placeholder:      cfg.Fallback.PlaceholderText,
				Metrics:          rec,
			}

			outcome := orchestrator.Run(runCtx, fallback.Request{
				AudioPath:          audioPath,
				WhisperModel:       model,
				Device:             strings.ToLower(strings.TrimSpace(device)),
				NoStem:             noStem,
				PrimaryUnavailable: check.PrimaryReason,
			})
			logger.Info("transcription complete",
				logging.String("state", outcome.State.String()),
				logging.Int("transitions", len(outcome.Trace)),
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), outcome.Transcript)
			return err
		},
	}

	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Path to the audio file")
	cmd.Flags().StringVar(&whisperModel, "whisper-model", "", "Whisper model (default from config)")
	cmd.Flags().StringVar(&device, "device", "", "Compute device: cpu, cuda or mps (default from config)")
	cmd.Flags().BoolVar(&noStem, "no-stem", false, "Skip vocal stem separation")
	return cmd
}
