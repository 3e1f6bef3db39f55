// Package gazereplay builds the offline replay command.
package gazereplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/louisbranch/wit/internal/gaze"
	entrypoint "github.com/louisbranch/wit/internal/platform/cmd"
	"github.com/louisbranch/wit/internal/replay"
)

// Config holds environment defaults for the replay command.
type Config struct {
	Profile string `env:"REPLAY_PROFILE"`
}

type runFlags struct {
	trace       string
	profile     string
	intensity   string
	threshold   float64
	minDuration float64
	window      int
	summary     bool
}

// NewRootCmd builds the gazereplay command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           entrypoint.ServiceReplay,
		Short:         "Replay recorded gaze traces through the fixation pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newRunCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	var cfg Config
	var flags runFlags
	defaults := gaze.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a JSONL trace of protocol messages",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			if err := entrypoint.ParseConfig(&cfg); err != nil {
				return err
			}
			if flags.profile == "" {
				flags.profile = cfg.Profile
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReplay(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.trace, "trace", "", "JSONL trace file, - for stdin")
	cmd.Flags().StringVar(&flags.profile, "profile", "", "TOML replay profile")
	cmd.Flags().StringVar(&flags.intensity, "intensity", string(defaults.CrowdingIntensity), "crowding intensity (low, medium, high)")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", defaults.FixationThresholdPx, "fixation threshold in px")
	cmd.Flags().Float64Var(&flags.minDuration, "min-duration", defaults.FixationMinDurationMs, "minimum fixation duration in ms")
	cmd.Flags().IntVar(&flags.window, "window", defaults.SmoothingWindow, "smoothing window in samples")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print only a summary instead of every reply")
	_ = cmd.MarkFlagRequired("trace")
	return cmd
}

func runReplay(cmd *cobra.Command, flags runFlags) error {
	profile, err := replay.LoadProfile(flags.profile)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	session := profile.ApplySession(gaze.DefaultConfig())
	applyFloatFlag(cmd, "threshold", &session.FixationThresholdPx, flags.threshold)
	applyFloatFlag(cmd, "min-duration", &session.FixationMinDurationMs, flags.minDuration)
	if cmd.Flags().Changed("window") {
		session.SmoothingWindow = flags.window
	}
	if cmd.Flags().Changed("intensity") {
		session.CrowdingIntensity = gaze.ParseIntensity(flags.intensity)
	}

	trace, closeTrace, err := openTrace(cmd.InOrStdin(), flags.trace)
	if err != nil {
		return err
	}
	defer closeTrace()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceReplay, func(ctx context.Context) error {
		summary, err := replay.Run(ctx, trace, out, replay.Options{
			Session: session,
			Tuning:  profile.ApplyTuning(gaze.DefaultTuning()),
			Emit:    !flags.summary,
		})
		if err != nil {
			return fmt.Errorf("replay trace: %w", err)
		}
		if flags.summary {
			_, err = fmt.Fprintln(out, replay.RenderSummary(summary, isTerminal(out)))
		}
		return err
	})
}

func applyFloatFlag(cmd *cobra.Command, name string, target *float64, value float64) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func openTrace(stdin io.Reader, path string) (io.Reader, func(), error) {
	if path == "" {
		return nil, nil, errors.New("trace path is required")
	}
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
