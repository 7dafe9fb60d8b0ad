package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MrEthical07/goToken/internal/perfgate"
	"github.com/spf13/cobra"
)

type perfcheckOptions struct {
	baseline  string
	candidate string
	threshold float64
}

func newPerfcheckCmd() *cobra.Command {
	opts := &perfcheckOptions{}

	cmd := &cobra.Command{
		Use:   "perfcheck",
		Short: "Fail when issuance benchmarks regress",
		Long: `Compare two 'go test -bench' outputs for the issuer benchmarks and fail
when a median grows past the threshold.

Examples:
  go test -run '^$' -bench Issuer -count 5 . > new.txt
  gotoken perfcheck --baseline old.txt --candidate new.txt --threshold 0.2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPerfcheck(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.baseline, "baseline", "", "Baseline benchmark output")
	cmd.Flags().StringVar(&opts.candidate, "candidate", "", "Candidate benchmark output")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", perfgate.DefaultThreshold, "Maximum allowed regression ratio (0.30 = +30%)")
	_ = cmd.MarkFlagRequired("baseline")
	_ = cmd.MarkFlagRequired("candidate")
	return cmd
}

func runPerfcheck(cmd *cobra.Command, opts *perfcheckOptions) error {
	if opts.threshold < 0 {
		return errors.New("threshold must be >= 0")
	}

	baseline, err := readSamples(opts.baseline)
	if err != nil {
		return fmt.Errorf("parse baseline: %w", err)
	}
	candidate, err := readSamples(opts.candidate)
	if err != nil {
		return fmt.Errorf("parse candidate: %w", err)
	}

	res := perfgate.Compare(baseline, candidate, perfgate.Tracked, opts.threshold)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headFmt("perf regression check:"))
	for _, row := range res.Rows {
		delta := okFmt(fmt.Sprintf("%+0.2f%%", row.Delta*100))
		if row.Delta > opts.threshold {
			delta = errFmt(fmt.Sprintf("%+0.2f%%", row.Delta*100))
		}
		fmt.Fprintf(out, "%s %s %.3f %.3f %s\n", row.Benchmark, row.Unit, row.Baseline, row.Candidate, delta)
	}

	if !res.Passed() {
		return fmt.Errorf("performance regression threshold exceeded:\n  - %s", strings.Join(res.Failures, "\n  - "))
	}
	return nil
}

func readSamples(path string) (perfgate.Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return perfgate.Parse(f, perfgate.Tracked)
}
