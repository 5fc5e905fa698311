package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"SumKeeper/internal/checkpoint"
	"SumKeeper/internal/config"
	"SumKeeper/internal/hashing"
	"SumKeeper/internal/logging"
	"SumKeeper/internal/metrics"
	"SumKeeper/internal/update"
	"SumKeeper/internal/verify"
)

var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:     "sumkeeper",
		Short:   "Record and re-verify per-directory checksum files",
		Version: version,
		Long: `sumkeeper keeps an <alg>sum.txt file in every directory it manages.

"update" appends the current hash of every file; "verify" recomputes them and
records each directory as known good or to check for the current month, so
a later run in the same month resumes where the previous one stopped.`,
		SilenceUsage: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ./sumkeeper.yaml if present)")
	flags.BoolP(config.KeySubdirs, "s", false, "treat every immediate subdirectory of the folder as its own unit")
	flags.StringP(config.KeyAlgorithm, "a", "sha256", "hash algorithm ("+strings.Join(hashing.Algorithms(), ", ")+")")
	flags.IntP(config.KeyThreads, "t", 0, "number of directories processed in parallel (0 = all at once)")
	flags.StringP(config.KeyLogLevel, "l", "quiet", "log level (quiet, info, debug, progress)")
	flags.StringSlice(config.KeyExclude, nil, "exclude patterns, doublestar syntax (multiple allowed)")
	flags.String(config.KeyStateDir, ".", "directory for known_good/to_check files")
	flags.Bool(config.KeyExternal, false, "verify with the host <alg>sum -c tool instead of the built-in hasher")

	root.AddCommand(
		&cobra.Command{
			Use:   "update [folder]",
			Short: "Append current hashes to each directory's checksum file",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts, log, err := loadOptions(cmd, configFile, args)
				if err != nil {
					return err
				}
				return runWithStats(out, log, func(stats *metrics.Stats) error {
					return update.Run(opts, afero.NewOsFs(), log, stats, out)
				})
			},
		},
		&cobra.Command{
			Use:   "verify [folder]",
			Short: "Recompute hashes and record which directories need attention",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts, log, err := loadOptions(cmd, configFile, args)
				if err != nil {
					return err
				}
				period := checkpoint.PeriodOf(time.Now())
				return runWithStats(out, log, func(stats *metrics.Stats) error {
					return verify.Run(opts, afero.NewOsFs(), log, stats, out, period, verify.CoreutilsTool{})
				})
			},
		},
	)
	return root
}

func loadOptions(cmd *cobra.Command, configFile string, args []string) (config.Options, *logging.Logger, error) {
	v, err := config.NewViper(configFile)
	if err != nil {
		return config.Options{}, nil, err
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config.Options{}, nil, fmt.Errorf("bind flags: %w", err)
	}

	folder := "."
	if len(args) == 1 {
		folder = args[0]
	}
	opts, err := config.Load(v, folder)
	if err != nil {
		return config.Options{}, nil, err
	}

	info, err := os.Stat(opts.Folder)
	if err != nil {
		return config.Options{}, nil, err
	}
	if !info.IsDir() {
		return config.Options{}, nil, fmt.Errorf("not a directory: %s", opts.Folder)
	}

	return opts, logging.NewLoggerTo(opts.Level, cmd.OutOrStdout(), cmd.ErrOrStderr()), nil
}

func runWithStats(w io.Writer, log *logging.Logger, fn func(*metrics.Stats) error) error {
	stats := &metrics.Stats{}
	stats.Start()
	err := fn(stats)
	stats.Stop()

	if log.InfoEnabled() {
		metrics.Print(w, stats)
	}
	return err
}
