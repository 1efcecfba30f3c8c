package main

import (
	"context"
	"fmt"
	"os"

	"blogbrain/internal/config"
	"blogbrain/pkg/domain"
	"blogbrain/pkg/logger"
	"blogbrain/pkg/serrors"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// generateCommand constructs the 'generate' subcommand that runs the content
// pipeline once in the foreground, without the API server or the job queue,
// and prints the finished article as JSON to stdout.
func generateCommand(cfg *config.Config) *cobra.Command {
	var (
		topic           string
		targetAudience  string
		tone            string
		excludeKeywords []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generates a single blog post in the foreground",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			req := domain.GenerationRequest{
				Topic:           topic,
				TargetAudience:  targetAudience,
				Tone:            domain.Tone(tone),
				ExcludeKeywords: excludeKeywords,
			}.Normalize()
			if err := req.Validate(); err != nil {
				logger.Fatal(ctx, "invalid request", zap.Error(serrors.Wrap(serrors.ErrValidation, err, "invalid request")))
			}

			pipeline, err := getCrew(ctx, cfg)
			if err != nil {
				logger.Fatal(ctx, "could not create content pipeline", zap.Error(err))
			}

			runCtx, cancel := context.WithTimeout(ctx, cfg.Generator.Timeout)
			defer cancel()

			article, err := pipeline.Generate(runCtx, req)
			if err != nil {
				logger.Fatal(ctx, "generation failed", zap.Error(err))
			}

			out, err := sonic.MarshalIndent(article, "", "  ")
			if err != nil {
				logger.Fatal(ctx, "could not encode article", zap.Error(err))
			}
			fmt.Fprintln(os.Stdout, string(out))
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Topic to write about")
	cmd.Flags().StringVar(&targetAudience, "audience", "", "Target audience of the article")
	cmd.Flags().StringVar(&tone, "tone", "", "Writing tone (professional, casual, technical, ...)")
	cmd.Flags().StringSliceVar(&excludeKeywords, "exclude", nil, "Keywords the article must avoid")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}
