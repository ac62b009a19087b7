package main

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/spf13/cobra"

	"lipsync/internal/mapping"
	"lipsync/internal/media/ffprobe"
	"lipsync/internal/services/rhubarb"
	"lipsync/internal/timeline"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var audioPath string
	var mouthMap string
	var blinkMap string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the mouth and blink timelines without rendering",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			audio, err := expandInput("audio", audioPath)
			if err != nil {
				return err
			}
			if !rhubarb.SupportsFormat(audio) {
				return fmt.Errorf("rhubarb needs wav or ogg input; transcode %s first or use `lipsync generate`", audio)
			}

			aligner := rhubarb.NewCLI(rhubarb.WithBinary(cfg.Tools.Rhubarb))
			frames, err := aligner.Align(cmd.Context(), audio)
			if err != nil {
				return err
			}
			mouth := timeline.FromFrames(frames)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mouth timeline (%d chunks, %.3fs):\n", len(mouth), timeline.Total(mouth))
			if err := printTimeline(cmd, mouth, mouthMap); err != nil {
				return err
			}

			if blinkMap == "" {
				return nil
			}
			probed, err := ffprobe.Inspect(cmd.Context(), cfg.Tools.FFprobe, audio)
			if err != nil {
				return err
			}
			var src timeline.Source
			if cmd.Flags().Changed("seed") {
				src = rand.New(rand.NewPCG(seed, 0))
			}
			blink := timeline.Blink(probed.DurationSeconds(), cfg.Blink.MinWait, cfg.Blink.MaxWait, cfg.Blink.FrameRate, src)
			fmt.Fprintf(out, "Blink timeline (%d chunks, %.3fs):\n", len(blink), timeline.Total(blink))
			return printTimeline(cmd, blink, blinkMap)
		},
	}

	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Narration audio file (wav or ogg)")
	cmd.Flags().StringVarP(&mouthMap, "lipsync", "l", "", "CSV mapping to resolve mouth labels to images (optional)")
	cmd.Flags().StringVarP(&blinkMap, "blink", "b", "", "CSV mapping to include a blink plan (optional)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the blink randomness for a reproducible plan")
	_ = cmd.MarkFlagRequired("audio")

	return cmd
}

func printTimeline(cmd *cobra.Command, intervals []timeline.Interval, mapPath string) error {
	var table *mapping.Table
	if mapPath != "" {
		expanded, err := expandInput("mapping", mapPath)
		if err != nil {
			return err
		}
		table, err = mapping.Load(expanded)
		if err != nil {
			return err
		}
	}

	headers := []string{"#", "Label", "Start", "Duration"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight}
	if table != nil {
		headers = append(headers, "Image")
		aligns = append(aligns, alignLeft)
	}

	rows := make([][]string, 0, len(intervals))
	start := 0.0
	for i, interval := range intervals {
		row := []string{
			strconv.Itoa(i + 1),
			interval.Label,
			fmt.Sprintf("%.3f", start),
			fmt.Sprintf("%.3f", interval.Duration),
		}
		if table != nil {
			image, err := table.Resolve(interval.Label)
			if err != nil {
				return err
			}
			row = append(row, image)
		}
		rows = append(rows, row)
		start += interval.Duration
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
	return nil
}
