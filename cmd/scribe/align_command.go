package main

import (
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/metrics"
	"scribe/internal/pipeline"
	"scribe/internal/preflight"
	"scribe/internal/services"
	"scribe/internal/services/recognizer"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "align <json|->",
		Short: "Align recognized words with diarized speakers",
		Long: "Reads a JSON payload {audioPath, asrModel, diarizationModel, hfToken}\n" +
			"from the argument (or stdin with \"-\") and prints\n" +
			"{\"transcript\": ..., \"wordCount\": ...}.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}

			raw := args[0]
			if strings.TrimSpace(raw) == "-" {
				if raw, err = readAllInput(cmd.InOrStdin()); err != nil {
					return services.Wrap(services.ErrInput, "align", "read payload", "", err)
				}
			}
			payload, err := pipeline.ParsePayload(raw)
			if err != nil {
				return err
			}
			payload = payload.WithDefaults(cfg)
			if err := preflight.Align(cfg, payload.AudioPath, payload.HFToken); err != nil {
				return err
			}

			rec := metrics.NewForPath(cfg.Metrics.Textfile)
			defer flushMetrics(rec, cfg, logger)

			client := recognizer.New(recognizer.Config{
				ASRCommand:         cfg.Alignment.ASRCommand,
				DiarizationCommand: cfg.Alignment.DiarizationCommand,
				Timeout:            cfg.AlignmentTimeout(),
			}, logger)
			p := pipeline.New(cfg, client, logger)
			p.Metrics = rec

			result, err := p.Run(ctx.runContext(cmd.Context()), payload)
			if err != nil {
				return err
			}
			return writeJSONLine(cmd, result)
		},
	}
}
