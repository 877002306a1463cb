package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/model"
	"github.com/uyouii/splash-energy/partition"
	"github.com/uyouii/splash-energy/report"
	"github.com/uyouii/splash-energy/utils"
	"go.uber.org/zap"
)

func newPartitionsCommand() *cobra.Command {
	var htmlPath string

	cmd := &cobra.Command{
		Use:   "partitions (<N> <std> <min> <max> <kmin> <kmax> | -)",
		Short: "Distribution of the number of particles per splash",
		Long: `partitions reads a summary line, either as arguments or as the last line of stdin
when the only argument is "-", and prints "no,prob" rows: the probability that a
splash holds "no" particles when its energy in quanta is normally distributed and
every particle carries between kmin and kmax quanta.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] == "-" {
				return nil
			}
			if len(args) == 6 || len(args) == 8 {
				return nil
			}
			return fmt.Errorf("want 6 summary fields or \"-\", got %d args: %w", len(args), common.ErrorInvalidArgs)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPartitions(cmd, args, htmlPath)
		},
	}
	cmd.Flags().StringVar(&htmlPath, "html", "", "also write an HTML bar chart to this file")
	return cmd
}

func runPartitions(cmd *cobra.Command, args []string, htmlPath string) error {
	ctx, _ := utils.WithRunID(cmd.Context())
	logger := utils.GetLogger(ctx)

	line := strings.Join(args, " ")
	if line == "-" {
		var err error
		if line, err = lastLine(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	summary, err := model.ParseSummary(line)
	if err != nil {
		return err
	}
	params, err := partition.ParametersFromSummary(summary)
	if err != nil {
		return err
	}
	logger.Info("partition parameters", zap.Any("params", params))

	dist := partition.Distribution(ctx, params)
	if err := partition.WriteCSV(cmd.OutOrStdout(), dist); err != nil {
		return err
	}

	if htmlPath != "" {
		f, err := os.Create(htmlPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.WritePartitionChart(f, summary.String(), dist); err != nil {
			return err
		}
		logger.Info("partition chart written", zap.String("path", htmlPath))
	}
	return nil
}

func lastLine(r io.Reader) (string, error) {
	res := ""
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			res = line
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if res == "" {
		return "", fmt.Errorf("no summary line on stdin: %w", common.ErrorInvalidArgs)
	}
	return res, nil
}
