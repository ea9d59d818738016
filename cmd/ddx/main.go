package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/ddx/internal/config"
	"github.com/bamsammich/ddx/internal/engine"
	"github.com/bamsammich/ddx/internal/event"
	"github.com/bamsammich/ddx/internal/operand"
	"github.com/bamsammich/ddx/internal/size"
	"github.com/bamsammich/ddx/internal/stats"
	"github.com/bamsammich/ddx/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// sizeFlag is a pflag.Value holding a byte count parsed with size.Parse,
// so flags accept the same suffixes as operands.
type sizeFlag struct {
	n int64
}

var _ pflag.Value = (*sizeFlag)(nil)

func (f *sizeFlag) String() string {
	if f.n == 0 {
		return ""
	}
	return strconv.FormatInt(f.n, 10)
}

func (*sizeFlag) Type() string { return "size" }

func (f *sizeFlag) Set(val string) error {
	n, err := size.Parse(val)
	if err != nil {
		return err
	}
	if n > math.MaxInt64 {
		return size.ErrOverflow
	}
	f.n = int64(n)
	return nil
}

func run() int {
	var (
		showVersion bool
		verbose     bool
		checksum    bool
		logFile     string
		bwLimit     sizeFlag
	)

	rootCmd := &cobra.Command{
		Use:           "ddx [flags] [operand]...",
		Short:         "Copy and convert a stream block by block",
		Long:          longHelp(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "ddx %s\n", version)
				return nil
			}

			// Configure logging.
			logLevel := slog.LevelWarn
			if verbose {
				logLevel = slog.LevelDebug
			}
			textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			var logHandler slog.Handler = textHandler
			if logFile != "" {
				lf, lfErr := os.Create(logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})
				logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
			}
			slog.SetDefault(slog.New(logHandler))

			// Load optional config file.
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "path", config.Path(), "error", err)
			}
			if err := applyConfigDefaults(cmd, cfg.Defaults, &bwLimit, &checksum); err != nil {
				return err
			}

			ops, err := operand.Resolve(cfg.Defaults.Operands(args))
			if err != nil {
				return err
			}
			for _, tok := range ops.Unknown {
				slog.Warn("ignoring unrecognized operand", "operand", tok)
			}

			// Set up context with signal handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			// When --log is set, tee events through a logging goroutine
			// that writes structured records before forwarding to the presenter.
			presenterEvents := (<-chan event.Event)(events)
			if logFile != "" {
				teed := make(chan event.Event, 256)
				go func() {
					for ev := range events {
						logEvent(ev)
						teed <- ev
					}
					close(teed)
				}()
				presenterEvents = teed
			}

			presenter := ui.NewPresenter(ui.Config{
				Writer: os.Stderr,
				Stats:  collector,
				Status: ops.Status,
				IsTTY:  ui.IsTTY(os.Stderr.Fd()),
			})

			slog.Debug("starting copy",
				"if", ops.InputPath,
				"of", ops.OutputPath,
				"ibs", ops.InputBlockSize,
				"obs", ops.OutputBlockSize,
				"conv", ops.Conversions.String(),
				"bwlimit", bwLimit.n,
			)

			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(presenterEvents)
			}()

			result := engine.Run(ctx, engine.Config{
				Operands: ops,
				Events:   events,
				Stats:    collector,
				BWLimit:  bwLimit.n,
				Checksum: checksum,
			})
			stop()
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
			}

			fmt.Fprint(os.Stderr, presenter.Summary())
			if checksum && result.Err == nil {
				fmt.Fprintf(os.Stderr, "blake3: %s\n", result.Digest)
			}

			if result.Err != nil {
				slog.Debug("copy failed", "state", result.State, "stats", result.Stats)
				return result.Err
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().
		Var(&bwLimit, "bwlimit", "output bandwidth limit in bytes per second (e.g. 100M, 1G)")
	rootCmd.Flags().
		BoolVar(&checksum, "checksum", false, "print a BLAKE3 digest of the bytes written")
	rootCmd.Flags().
		StringVar(&logFile, "log", "", "write structured JSON log to FILE")

	rootCmd.AddCommand(newDocsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ddx: %v\n", err)
		return 1
	}

	return 0
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	bwLimit *sizeFlag,
	checksum *bool,
) error {
	if !cmd.Flags().Changed("bwlimit") && defaults.BWLimit != nil {
		if err := bwLimit.Set(*defaults.BWLimit); err != nil {
			return fmt.Errorf("invalid bwlimit in %s: %w", config.Path(), err)
		}
	}
	if !cmd.Flags().Changed("checksum") && defaults.Checksum != nil {
		*checksum = *defaults.Checksum
	}
	return nil
}

func logEvent(ev event.Event) {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.Uint64("block", ev.Block),
		slog.Uint64("bytes", ev.Bytes),
	}
	if ev.State != "" {
		attrs = append(attrs, slog.String("state", ev.State))
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	slog.LogAttrs(context.Background(), slog.LevelInfo, "ddx.event", attrs...)
}
