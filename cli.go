package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"audioconv/config"
	"audioconv/ffmpeg"
	"audioconv/ffprobe"
	"audioconv/internal/deps"
	"audioconv/internal/logging"
	"audioconv/models"
	"audioconv/orchestrator"
)

// Exit code for a run stopped by SIGINT/SIGTERM.
const exitCancelled = 130

// exitError carries a process exit code out of a command. err may be nil
// when the command already reported the problem itself.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "audioconv",
		Short:         "Batch audio converter driving ffmpeg",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file path (YAML or TOML)")

	root.AddCommand(newConvertCommand(&configPath))
	root.AddCommand(newProbeCommand(&configPath))
	root.AddCommand(newConfigCommand(&configPath))
	root.AddCommand(newFormatsCommand())
	root.AddCommand(newCheckCommand(&configPath))

	return root
}

func newConvertCommand(configPath *string) *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert audio files to the configured format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, *configPath, args, noProgress)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

func runConvert(cmd *cobra.Command, configPath string, inputs []string, noProgress bool) error {
	cfg, loadedFrom, err := config.LoadConfig(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Output: stderr,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	if loadedFrom != "" {
		logger.Debug("loaded config file", "path", loadedFrom)
	}

	ffmpegPath, err := deps.ResolveFFmpeg(cfg.FFmpegPath)
	if err != nil {
		return err
	}
	runner := ffmpeg.NewRunner(ffmpegPath, logger.Named("ffmpeg"))
	logger.Debug("engine resolved", "ffmpeg", runner.Binary())
	executor := orchestrator.NewExecutor(cfg, runner, logger)

	if cfg.ShowInfo {
		probePath, err := deps.ResolveFFprobe(cfg.FFprobePath)
		if err != nil {
			logger.Warn("media info display disabled", "error", err)
		} else {
			executor.SetProber(ffprobe.NewProber(probePath, logger.Named("ffprobe")))
		}
	}

	var bar *progressbar.ProgressBar
	if !noProgress && isTerminal(stderr) {
		bar = newProgressBar(len(inputs), stderr)
		executor.SetProgressCallback(func(done, total int, outcome models.TaskOutcome) {
			_ = bar.Set(done)
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	res, err := executor.Run(ctx, inputs)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprint(out, renderSummary(res, time.Since(start)))

	switch {
	case res.Cancelled():
		return &exitError{code: exitCancelled}
	case !res.Clean():
		return &exitError{code: 1}
	}
	return nil
}

func newProbeCommand(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Show stream and container details of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.LoadSettings(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			path, err := deps.ResolveFFprobe(cfg.FFprobePath)
			if err != nil {
				return err
			}
			prober := ffprobe.NewProber(path, nil)
			out := cmd.OutOrStdout()

			if asJSON {
				res, err := prober.Probe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(newProbeReport(res))
			}

			lines, err := prober.Info(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the parsed ffprobe result, duration and audio stream count as JSON")
	cmd.Flags().String("ffprobe", "", "Path to the ffprobe binary (default: search PATH)")
	return cmd
}

// probeReport is the `probe --json` document: the parsed ffprobe result plus
// the derived duration and audio stream count.
type probeReport struct {
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	AudioStreams    int     `json:"audio_streams"`

	*ffprobe.ProbeResult
}

func newProbeReport(res *ffprobe.ProbeResult) probeReport {
	report := probeReport{
		AudioStreams: len(res.GetAudioStreams()),
		ProbeResult:  res,
	}
	if d, err := res.GetDuration(); err == nil {
		report.DurationSeconds = d
	}
	return report
}

func newConfigCommand(configPath *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(configPath))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, loadedFrom, err := config.LoadConfig(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if loadedFrom != "" {
				fmt.Fprintf(out, "Config file: %s\n", loadedFrom)
			} else {
				fmt.Fprintln(out, "Config file: (none, using defaults)")
			}
			cfg.PrintConfig(out)
			return nil
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a configuration file with default values",
		Long:  "Write a configuration file with default values. A .toml extension selects TOML, anything else YAML.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(args[0])
			if target == "" {
				return fmt.Errorf("config path is empty")
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}

			cfg := config.DefaultConfig()
			cfg.ApplyFormatDefaults()
			if err := config.SaveConfigFile(cfg, target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported target formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderFormats(models.Formats()))
			return nil
		},
	}
}

func newCheckCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether ffmpeg and ffprobe can be found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.LoadSettings(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			statuses := deps.Check(cfg.FFmpegPath, cfg.FFprobePath)
			fmt.Fprintln(cmd.OutOrStdout(), renderDeps(statuses))
			for _, st := range statuses {
				if st.Name == "ffmpeg" && !st.Available {
					return &exitError{code: 1}
				}
			}
			return nil
		},
	}

	cmd.Flags().String("ffmpeg", "", "Path to the ffmpeg binary (default: search PATH)")
	cmd.Flags().String("ffprobe", "", "Path to the ffprobe binary (default: search PATH)")
	return cmd
}

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
