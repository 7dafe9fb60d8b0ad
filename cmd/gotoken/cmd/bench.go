package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/internal/security"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type benchOptions struct {
	keyPath     string
	expFormat   string
	ops         int
	concurrency int
	audit       bool
}

var (
	headFmt = color.New(color.FgBlue, color.Bold).SprintFunc()
	okFmt   = color.New(color.FgGreen).SprintFunc()
	errFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
	dimFmt  = color.New(color.Faint).SprintFunc()
)

func newBenchCmd(g *globals) *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure concurrent issuance throughput and latency",
		Long: `Issue tokens from many goroutines with one key and report throughput
and latency percentiles.

With --audit every issuance is also recorded to a Redis stream. When no
audit.redis_addr is configured an in-process Redis is started.

Examples:
  gotoken bench --key signing.pem
  gotoken bench --key signing.pem --ops 500000 --concurrency 64 --audit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.keyPath, "key", "k", "", "Ed25519 private key file (env: GOTOKEN_KEY_FILE)")
	cmd.Flags().StringVar(&opts.expFormat, "exp-format", "rfc3339", "Expiration encoding: rfc3339 or numeric")
	cmd.Flags().IntVar(&opts.ops, "ops", 100000, "Total tokens to issue")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 64, "Concurrent workers")
	cmd.Flags().BoolVar(&opts.audit, "audit", false, "Record audit events to a Redis stream")
	return cmd
}

func runBench(cmd *cobra.Command, g *globals, opts *benchOptions) error {
	if opts.ops <= 0 || opts.concurrency <= 0 {
		return errors.New("ops and concurrency must be > 0")
	}

	format, err := g.expirationFormat(cmd, opts.expFormat)
	if err != nil {
		return err
	}
	key, err := g.loadKey(opts.keyPath)
	if err != nil {
		return err
	}
	defer security.Wipe(key)

	issuer, cleanup, err := g.newIssuer(format, true, opts.audit)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d tokens, %d workers, exp=%s\n", headFmt("bench:"), opts.ops, opts.concurrency, format)

	stats := runIssuePhase(issuer, key, opts.ops, opts.concurrency)
	printStats(out, "issue", stats)

	snap := issuer.MetricsSnapshot()
	fmt.Fprintf(out, "%s issued=%d signing_failures=%d audit_dropped=%d\n",
		dimFmt("issuer:"),
		snap.Counters[goToken.MetricTokenIssued],
		snap.Counters[goToken.MetricTokenSigningFailure],
		issuer.AuditDropped(),
	)

	if stats.failures > 0 {
		return fmt.Errorf("%d of %d issuances failed", stats.failures, stats.ops)
	}
	return nil
}

func runIssuePhase(issuer *goToken.Issuer, key any, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			appID := fmt.Sprintf("bench-app-%d", worker)
			local := make([]time.Duration, 0, ops/concurrency+1)
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					break
				}
				t0 := time.Now()
				_, err := issuer.Generate(fmt.Sprintf("user-%d", i), appID, key)
				local = append(local, time.Since(t0))
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
			}
			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	stats := phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
	}
	if total > 0 {
		stats.opsPerS = float64(len(samples)) / total.Seconds()
	}
	return stats
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(w io.Writer, name string, s phaseStats) {
	failures := okFmt(s.failures)
	if s.failures > 0 {
		failures = errFmt(s.failures)
	}
	fmt.Fprintf(w, "%s: ops=%d failures=%s total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
