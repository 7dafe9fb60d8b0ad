// Package perfgate compares two `go test -bench` outputs and flags benchmarks
// whose median cost grew past a threshold.
package perfgate

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// DefaultThreshold allows a 30% regression before failing.
const DefaultThreshold = 0.30

// Tracked lists the issuance benchmarks and the units gated for each.
var Tracked = map[string][]string{
	"BenchmarkIssuerGenerate":            {"ns/op", "allocs/op"},
	"BenchmarkIssuerGenerateNumericDate": {"ns/op", "allocs/op"},
	"BenchmarkIssuerGenerateParallel":    {"ns/op"},
}

// Samples maps benchmark name to unit to every observed value.
type Samples map[string]map[string][]float64

// Row is one benchmark/unit comparison.
type Row struct {
	Benchmark string
	Unit      string
	Baseline  float64
	Candidate float64
	Delta     float64
}

// Result holds every comparison plus the reasons the gate failed, if any.
type Result struct {
	Rows     []Row
	Failures []string
}

// Passed reports whether no benchmark regressed past the threshold.
func (r Result) Passed() bool { return len(r.Failures) == 0 }

// Parse reads benchmark lines for the tracked names. Other lines are ignored.
func Parse(r io.Reader, tracked map[string][]string) (Samples, error) {
	samples := Samples{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "Benchmark") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		name := normalizeName(fields[0])
		if _, ok := tracked[name]; !ok {
			continue
		}
		if _, ok := samples[name]; !ok {
			samples[name] = map[string][]float64{}
		}

		for i := 2; i+1 < len(fields); i += 2 {
			value, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				continue
			}
			unit := fields[i+1]
			samples[name][unit] = append(samples[name][unit], value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// Compare checks the candidate medians against the baseline medians.
func Compare(baseline, candidate Samples, tracked map[string][]string, threshold float64) Result {
	var res Result

	names := make([]string, 0, len(tracked))
	for name := range tracked {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, unit := range tracked[name] {
			base := baseline[name][unit]
			cand := candidate[name][unit]
			if len(base) == 0 || len(cand) == 0 {
				res.Failures = append(res.Failures, fmt.Sprintf("missing samples for %s %s", name, unit))
				continue
			}

			baseMedian := median(base)
			candMedian := median(cand)
			if baseMedian <= 0 {
				// a zero-alloc baseline may only stay at zero
				if unit == "allocs/op" && baseMedian == 0 {
					res.Rows = append(res.Rows, Row{Benchmark: name, Unit: unit, Candidate: candMedian})
					if candMedian > 0 {
						res.Failures = append(res.Failures, fmt.Sprintf("%s %s grew from zero to %.0f", name, unit, candMedian))
					}
					continue
				}
				res.Failures = append(res.Failures, fmt.Sprintf("invalid baseline median for %s %s", name, unit))
				continue
			}

			delta := (candMedian - baseMedian) / baseMedian
			res.Rows = append(res.Rows, Row{Benchmark: name, Unit: unit, Baseline: baseMedian, Candidate: candMedian, Delta: delta})
			if delta > threshold {
				res.Failures = append(res.Failures, fmt.Sprintf("%s %s regressed by %+0.2f%% (limit %+0.2f%%)", name, unit, delta*100, threshold*100))
			}
		}
	}
	return res
}

func normalizeName(raw string) string {
	if idx := strings.LastIndexByte(raw, '-'); idx > 0 {
		if _, err := strconv.Atoi(raw[idx+1:]); err == nil {
			return raw[:idx]
		}
	}
	return raw
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	copied := make([]float64, len(values))
	copy(copied, values)
	sort.Float64s(copied)

	mid := len(copied) / 2
	if len(copied)%2 == 1 {
		return copied[mid]
	}
	return (copied[mid-1] + copied[mid]) / 2
}
