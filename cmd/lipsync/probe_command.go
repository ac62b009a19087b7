package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"lipsync/internal/media/ffprobe"
	"lipsync/internal/services/rhubarb"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <audio>",
		Short: "Inspect narration audio before rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			audio, err := expandInput("audio", args[0])
			if err != nil {
				return err
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.Tools.FFprobe, audio)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Audio", colorize) {
				fmt.Fprintln(out, line)
			}

			duration := result.DurationSeconds()
			durationKind, durationText := statusOK, fmt.Sprintf("%.3fs", duration)
			if math.IsNaN(duration) || duration <= 0 {
				durationKind, durationText = statusError, "unknown"
			}
			fmt.Fprintln(out, renderStatusLine("Duration", durationKind, durationText, colorize))

			streamKind := statusOK
			if result.AudioStreamCount() == 0 {
				streamKind = statusError
			}
			fmt.Fprintln(out, renderStatusLine("Audio streams", streamKind,
				fmt.Sprintf("%d", result.AudioStreamCount()), colorize))

			if stream, ok := result.FirstAudioStream(); ok {
				fmt.Fprintln(out, renderStatusLine("Codec", statusInfo, stream.CodecName, colorize))
				if stream.SampleRate != "" {
					fmt.Fprintln(out, renderStatusLine("Sample rate", statusInfo, stream.SampleRate, colorize))
				}
			}

			alignKind, alignText := statusOK, "alignable as-is"
			if !rhubarb.SupportsFormat(audio) {
				alignKind, alignText = statusWarn, "will be transcoded to wav for alignment"
			}
			fmt.Fprintln(out, renderStatusLine("Rhubarb input", alignKind, alignText, colorize))
			return nil
		},
	}
	return cmd
}
