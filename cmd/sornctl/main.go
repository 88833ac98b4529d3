package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oisee/sornarith/pkg/arith"
	"github.com/oisee/sornarith/pkg/config"
	"github.com/oisee/sornarith/pkg/partition"
	"github.com/oisee/sornarith/pkg/sornlog"
	"github.com/oisee/sornarith/pkg/sorntable"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sornctl",
		Short: "SORN arithmetic — classify values, generate operation tables, apply ring ops",
	}

	var configPath, logLevel, logFile string
	var verbose bool
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log output file (default: stderr only)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Mirror every log record to stderr, not just warn+")

	var logger *slog.Logger
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger = newLogger(logFile, logLevel, verbose)
	}

	rootCmd.AddCommand(
		newClassifyCmd(&configPath, &logger),
		newTableCmd(&configPath, &logger),
		newApplyCmd(&configPath, &logger),
		newDescribeCmd(&configPath, &logger),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the CLI's diagnostic logger. With no --log-file it
// uses stderr as its output writer and --verbose has no effect; with one,
// records go to the file and warn+ (or everything, if --verbose) also
// reaches stderr.
func newLogger(logFile, logLevel string, verbose bool) *slog.Logger {
	if logFile == "" {
		return sornlog.New(os.Stderr, logLevel, false)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sornctl: could not open --log-file %q: %v\n", logFile, err)
		return sornlog.New(os.Stderr, logLevel, false)
	}
	return sornlog.New(f, logLevel, verbose)
}

func loadPartition(configPath, partitionName, grid, text string) (*partition.Partition, error) {
	switch {
	case text != "":
		return partition.NewFromString(text)
	case grid != "":
		start, end, step, hasInf, err := parseGridFlag(grid)
		if err != nil {
			return nil, err
		}
		return partition.NewGrid(start, end, step, hasInf)
	case partitionName != "":
		var cfg *config.Config
		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return nil, err
		}
		return cfg.Partition(partitionName)
	default:
		return nil, fmt.Errorf("sornctl: one of --partition, --grid, or --text is required")
	}
}

// parseGridFlag parses "start,end,step[,inf]" into NewGrid's arguments.
func parseGridFlag(grid string) (start, end, step float64, hasInf bool, err error) {
	var parts [4]string
	n := 0
	for _, field := range splitComma(grid) {
		if n >= 4 {
			break
		}
		parts[n] = field
		n++
	}
	if n < 3 {
		return 0, 0, 0, false, fmt.Errorf("sornctl: --grid wants \"start,end,step[,inf]\", got %q", grid)
	}
	if start, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return 0, 0, 0, false, fmt.Errorf("sornctl: invalid grid start: %w", err)
	}
	if end, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return 0, 0, 0, false, fmt.Errorf("sornctl: invalid grid end: %w", err)
	}
	if step, err = strconv.ParseFloat(parts[2], 64); err != nil {
		return 0, 0, 0, false, fmt.Errorf("sornctl: invalid grid step: %w", err)
	}
	hasInf = n == 4 && (parts[3] == "inf" || parts[3] == "true")
	return start, end, step, hasInf, nil
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func addPartitionFlags(cmd *cobra.Command, partitionName, grid, text *string) {
	cmd.Flags().StringVar(partitionName, "partition", "", "Named partition from the config file")
	cmd.Flags().StringVar(grid, "grid", "", "Grid spec: start,end,step[,inf]")
	cmd.Flags().StringVar(text, "text", "", "Textual partition spec (spec §6 grammar)")
}

func newClassifyCmd(configPath *string, logger **slog.Logger) *cobra.Command {
	var partitionName, grid, text, value string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a value against a partition and print its mask",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPartition(*configPath, partitionName, grid, text)
			if err != nil {
				(*logger).Error("failed to load partition", "error", err)
				return err
			}
			v, err := partition.ParseValue(value)
			if err != nil {
				return fmt.Errorf("sornctl: invalid --value: %w", err)
			}
			bits := p.Classify(v)
			(*logger).Debug("classified value", "value", v.String(), "bits", strconv.FormatUint(uint64(bits), 2))
			fmt.Printf("%s -> %s\n", v.String(), strconv.FormatUint(uint64(bits), 2))
			return nil
		},
	}
	addPartitionFlags(cmd, &partitionName, &grid, &text)
	cmd.Flags().StringVar(&value, "value", "", "Value token to classify (spec §6 grammar)")
	return cmd
}

func newTableCmd(configPath *string, logger **slog.Logger) *cobra.Command {
	var partitionName, grid, text, op, format string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Generate the n×n operation table for a partition",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPartition(*configPath, partitionName, grid, text)
			if err != nil {
				(*logger).Error("failed to load partition", "error", err)
				return err
			}
			(*logger).Info("generating operation table", "op", op, "elements", p.Len())
			t := sorntable.GenerateNamed(p, op)
			(*logger).Info("table generation complete", "op", op, "format", format)
			switch format {
			case "csv":
				fmt.Print(t.CSV())
			case "human":
				fmt.Print(t.String())
			case "json":
				b, err := t.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(b))
			default:
				return fmt.Errorf("sornctl: unknown --format %q (want csv, human, json)", format)
			}
			return nil
		},
	}
	addPartitionFlags(cmd, &partitionName, &grid, &text)
	cmd.Flags().StringVar(&op, "op", "add", "Operation: add, sub, mul, div")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv, human, json")
	return cmd
}

func newApplyCmd(configPath *string, logger **slog.Logger) *cobra.Command {
	var partitionName, grid, text, op, lhs, rhs string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a binary ring operation to two values and print the resulting mask",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPartition(*configPath, partitionName, grid, text)
			if err != nil {
				(*logger).Error("failed to load partition", "error", err)
				return err
			}
			o, ok := arith.ParseOp(op)
			if !ok {
				return fmt.Errorf("sornctl: unknown --op %q", op)
			}
			lv, err := partition.ParseValue(lhs)
			if err != nil {
				return fmt.Errorf("sornctl: invalid --lhs: %w", err)
			}
			rv, err := partition.ParseValue(rhs)
			if err != nil {
				return fmt.Errorf("sornctl: invalid --rhs: %w", err)
			}

			self := partition.CarrierFromValue(p, lv)
			other := partition.CarrierFromValue(p, rv)
			if err := arith.Apply(o, self, other); err != nil {
				(*logger).Warn("apply failed", "op", op, "error", err)
				return err
			}
			(*logger).Debug("applied operation", "op", op, "result", self.String())
			fmt.Println(self.String())
			return nil
		},
	}
	addPartitionFlags(cmd, &partitionName, &grid, &text)
	cmd.Flags().StringVar(&op, "op", "add", "Operation: add, sub, mul, div")
	cmd.Flags().StringVar(&lhs, "lhs", "", "Left operand (spec §6 value grammar)")
	cmd.Flags().StringVar(&rhs, "rhs", "", "Right operand (spec §6 value grammar)")
	return cmd
}

func newDescribeCmd(configPath *string, logger **slog.Logger) *cobra.Command {
	var partitionName, grid, text string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print a partition's elements and the bit each occupies",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPartition(*configPath, partitionName, grid, text)
			if err != nil {
				(*logger).Error("failed to load partition", "error", err)
				return err
			}
			fmt.Printf("%d elements, contains_inf=%t, one_bit=%s\n",
				p.Len(), p.ContainsInf, strconv.FormatUint(uint64(p.OneBit), 2))
			for i, s := range p.Sets {
				fmt.Printf("  bit %2d: %s\n", i, s.String())
			}
			return nil
		},
	}
	addPartitionFlags(cmd, &partitionName, &grid, &text)
	return cmd
}
