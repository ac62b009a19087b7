package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lipsync/internal/config"
	"lipsync/internal/history"
	"lipsync/internal/pipeline"
	"lipsync/internal/preflight"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var audioPath string
	var mouthMap string
	var blinkMap string
	var background string
	var outputPath string
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a lip-synced video from narration audio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			req, err := buildRenderRequest(audioPath, mouthMap, blinkMap, background, outputPath)
			if err != nil {
				return err
			}

			if !skipPreflight {
				results := preflight.RunAll(cfg, filepath.Dir(req.OutputPath))
				if !preflight.AllPassed(results) {
					printPreflight(cmd, results)
					return fmt.Errorf("preflight checks failed; run `lipsync deps` for details")
				}
			}

			opts := []pipeline.Option{}
			if cfg.History.Enabled {
				store, err := history.Open(cfg.History.Path)
				if err != nil {
					return fmt.Errorf("open render history: %w", err)
				}
				defer store.Close()
				opts = append(opts, pipeline.WithHistory(store))
			}

			result, err := pipeline.New(cfg, logger, opts...).Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", result.OutputPath)
			fmt.Fprintf(out, "  audio: %.2fs, mouth chunks: %d, blink chunks: %d\n",
				result.AudioSeconds, result.MouthChunks, result.BlinkChunks)
			return nil
		},
	}

	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Narration audio file")
	cmd.Flags().StringVarP(&mouthMap, "lipsync", "l", "", "CSV mapping phoneme labels to mouth images")
	cmd.Flags().StringVarP(&blinkMap, "blink", "b", "", "CSV mapping blink phases to eye images (optional)")
	cmd.Flags().StringVarP(&background, "background", "g", "", "Background image layered under the animation (optional)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output video file")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before rendering")
	_ = cmd.MarkFlagRequired("audio")
	_ = cmd.MarkFlagRequired("lipsync")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func buildRenderRequest(audioPath, mouthMap, blinkMap, background, outputPath string) (pipeline.Request, error) {
	req := pipeline.Request{}
	var err error
	if req.AudioPath, err = expandInput("audio", audioPath); err != nil {
		return pipeline.Request{}, err
	}
	if req.MouthMap, err = expandInput("lipsync", mouthMap); err != nil {
		return pipeline.Request{}, err
	}
	if req.OutputPath, err = expandInput("output", outputPath); err != nil {
		return pipeline.Request{}, err
	}
	if strings.TrimSpace(blinkMap) != "" {
		if req.BlinkMap, err = expandInput("blink", blinkMap); err != nil {
			return pipeline.Request{}, err
		}
	}
	if strings.TrimSpace(background) != "" {
		if req.Background, err = expandInput("background", background); err != nil {
			return pipeline.Request{}, err
		}
	}
	return req, nil
}

func expandInput(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	expanded, err := config.ExpandPath(value)
	if err != nil {
		return "", fmt.Errorf("resolve --%s: %w", name, err)
	}
	return expanded, nil
}

func printPreflight(cmd *cobra.Command, results []preflight.Result) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Preflight", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, result := range results {
		kind := statusOK
		if !result.Passed {
			kind = statusError
		}
		fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
	}
}
