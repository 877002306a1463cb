package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/config"
	"github.com/uyouii/splash-energy/energy"
	"github.com/uyouii/splash-energy/report"
	"github.com/uyouii/splash-energy/utils"
	"go.uber.org/zap"
)

const keyDumpConfig = "dump-config"

// NewRootCommand builds the splash command tree around its own viper instance.
func NewRootCommand() *cobra.Command {
	v := config.NewViper()
	d := config.Default()

	root := &cobra.Command{
		Use:   "splash <camera_csv> <sticky_paper_csv> <quantum_count>",
		Short: "Quantized energy statistics for splash experiments",
		Long: `splash combines a high speed camera table (no,v,e) and a sticky paper table (no,e),
drops velocity outliers, estimates the sticky paper / camera particle ratio by resampling
and prints the quantized energy statistics. The last output line is the summary
"N std min max kmin kmax [parts_min parts_max]" read by "splash partitions -".`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := utils.InitLogger(v.GetBool(config.KeyVerbose))
			if err != nil {
				return err
			}
			cmd.SetContext(utils.WithLogger(contextOf(cmd), logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = utils.GetLogger(cmd.Context()).Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, v, args)
		},
	}

	persistent := root.PersistentFlags()
	persistent.Bool(config.KeyVerbose, d.Verbose, "debug level logging on stderr")

	flags := root.Flags()
	flags.Bool(config.KeyIncludeParts, d.IncludePartsInSummary, "append parts_min parts_max to the summary line")
	flags.Int(config.KeySamples, d.SampleCount, "number of resampling trials")
	flags.Uint64(config.KeySeed, d.Seed, "random seed, 0 picks one from the clock")
	flags.Float64(config.KeyLowerQuantile, d.LowerQuantile, "lower velocity quantile of the outlier filter")
	flags.Float64(config.KeyUpperQuantile, d.UpperQuantile, "upper velocity quantile of the outlier filter")
	flags.Int(config.KeyHSCSplashes, d.HSCSplashes, "number of camera splashes")
	flags.Int(config.KeySPSplashes, d.SPSplashes, "number of sticky paper splashes")
	flags.String(config.KeyFormat, d.Format, fmt.Sprintf("report format, one of %v", report.Formats))
	flags.String(config.KeyPlotDir, d.PlotDir, "write PNG plots into this directory")
	flags.String(config.KeyConfigFile, "", "YAML config file")
	flags.Bool(keyDumpConfig, false, "print the resolved config on stderr")

	bindFlags(v, persistent)
	bindFlags(v, flags)

	root.AddCommand(newPartitionsCommand())
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runAnalysis(cmd *cobra.Command, v *viper.Viper, args []string) error {
	n, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("quantum count %q: %w", args[2], common.ErrorInvalidArgs)
	}
	v.Set(config.KeyCameraPath, args[0])
	v.Set(config.KeyStickyPaperPath, args[1])
	v.Set(config.KeyQuantumCount, n)

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if v.GetBool(keyDumpConfig) {
		pp.Fprintln(cmd.ErrOrStderr(), cfg)
	}

	ctx, runID := utils.WithRunID(cmd.Context())
	logger := utils.GetLogger(ctx)
	logger.Debug("analysis config", zap.Any("config", cfg))

	res, err := energy.Analyze(ctx, cfg.ToRequest(), energy.NewSource(cfg.Seed))
	if err != nil {
		return err
	}
	res.RunID = runID

	if err := report.Write(cmd.OutOrStdout(), cfg.Format, res); err != nil {
		return err
	}

	if cfg.PlotDir != "" {
		paths, err := report.WritePlots(cfg.PlotDir, res)
		if err != nil {
			return err
		}
		logger.Info("plots written", zap.Strings("paths", paths))
	}
	return nil
}

// Execute runs the command line and exits with status 1 on any error.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
