package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kerignard/vodsplit/internal/config"
	"github.com/kerignard/vodsplit/internal/ffmpeg"
	"github.com/kerignard/vodsplit/internal/logging"
	"github.com/kerignard/vodsplit/internal/pipeline"
	"github.com/kerignard/vodsplit/internal/video"
	"github.com/kerignard/vodsplit/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	verbose  bool
	reencode bool
	quiet    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vodsplit",
	Short: "vodsplit - cut recorded VODs into per-game files",
	Long:  "Scans a long recording for the in-game match clock, detects where each game starts and ends, and cuts the recording into one file per game.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./vodsplit.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress the scan progress bar")

	splitCmd.Flags().BoolVar(&reencode, "reencode", false, "re-encode cuts instead of stream copy (slower, frame-accurate)")

	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(repairCmd)
}

var splitCmd = &cobra.Command{
	Use:   "split [input video] [output dir]",
	Short: "Detect games and cut them into separate files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		logger := logging.WithComponent("cli")

		pipe, err := pipeline.New(log.Logger, cfg, pipeline.Options{Quiet: quiet})
		if err != nil {
			return err
		}
		defer pipe.Close()

		res, err := pipe.Detect(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(res.Segments) == 0 {
			logger.Error().Msg("no game segments detected")
			return pipeline.ErrNoSegments
		}

		printSegments(res)

		outputs, failures, err := pipe.Cut(cmd.Context(), res, args[1], reencode)
		if err != nil {
			return err
		}
		for _, out := range outputs {
			logger.Info().Str("output", out).Msg("wrote game file")
		}
		for _, f := range failures {
			logger.Error().Err(f.Err).Str("output", f.Output).Msg("cut failed")
		}
		if len(failures) > 0 {
			return fmt.Errorf("%d of %d cuts failed", len(failures), len(res.Segments))
		}

		return nil
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect [input video]",
	Short: "Scan for game segments without cutting anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		pipe, err := pipeline.New(log.Logger, cfg, pipeline.Options{Quiet: quiet})
		if err != nil {
			return err
		}
		defer pipe.Close()

		res, err := pipe.Detect(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(res.Segments) == 0 {
			logging.WithComponent("cli").Error().Msg("no game segments detected")
			return pipeline.ErrNoSegments
		}

		printSegments(res)
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [input video]",
	Short: "Show stream metadata for a video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath)
		if err != nil {
			return err
		}

		info, err := exec.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("File:      %s\n", info.FilePath)
		fmt.Printf("Duration:  %s\n", util.FormatClock(info.Duration.Seconds()))
		fmt.Printf("Video:     %s %dx%d @ %.3f fps (%d frames)\n",
			info.VideoCodec, info.Width, info.Height, info.FPS, info.FrameCount)
		if info.HasAudio {
			fmt.Printf("Audio:     %s\n", info.AudioCodec)
		} else {
			fmt.Printf("Audio:     none\n")
		}
		return nil
	},
}

var repairCmd = &cobra.Command{
	Use:   "repair [input video]",
	Short: "Produce a readable copy of a corrupt recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath)
		if err != nil {
			return err
		}

		usable, err := exec.EnsureReadable(cmd.Context(), args[0], video.CanOpen)
		if err != nil {
			return err
		}

		fmt.Println(usable)
		return nil
	},
}

func printSegments(res *pipeline.ScanResult) {
	for i, seg := range res.Segments {
		fmt.Printf("Game %02d: %s → %s (~%s)\n",
			i+1,
			util.FormatClock(seg.Start),
			util.FormatClock(seg.End),
			util.FormatClock(seg.Duration()))
	}
}
