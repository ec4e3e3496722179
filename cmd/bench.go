package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/dimens/internal/engine"
	"github.com/conneroisu/dimens/internal/screen"
	"github.com/conneroisu/dimens/internal/strategy"
)

type benchOptions struct {
	root       *rootOptions
	output     OutputFormat
	goroutines int
	iterations int
	keys       int
}

// benchResult summarizes one benchmark run.
type benchResult struct {
	Goroutines int           `json:"goroutines" yaml:"goroutines"`
	Operations int           `json:"operations" yaml:"operations"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	OpsPerSec  float64       `json:"ops_per_sec" yaml:"ops_per_sec"`
	Cache      engine.Stats  `json:"cache" yaml:"cache"`
}

func newBenchCommand(root *rootOptions) *cobra.Command {
	o := &benchOptions{root: root}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure calculation throughput under concurrent load",
		Long: `Run calculations from several goroutines against a shared engine and
report throughput and cache statistics.

Each goroutine cycles through --keys distinct screen and strategy
combinations, so a key count above the cache capacity shows the cost of
collisions.

Examples:
  dimens bench
  dimens bench --goroutines 16 --keys 4096 --cache-capacity 256
  dimens bench --cache=false`,
		Args: cobra.NoArgs,
		RunE: o.run,
	}

	fs := cmd.Flags()
	fs.IntVar(&o.goroutines, "goroutines", 8, "concurrent workers")
	fs.IntVar(&o.iterations, "iterations", 100000, "calculations per worker")
	fs.IntVar(&o.keys, "keys", 64, "distinct calculations per worker")
	addOutputFlag(cmd, &o.output)
	for _, name := range []string{"goroutines", "iterations", "keys"} {
		AddFlagValidation(cmd, name, ValidatePositive)
	}
	return cmd
}

type benchCase struct {
	profile *strategy.Profile
	screen  screen.Config
}

func (o *benchOptions) cases() ([]benchCase, error) {
	kinds := make([]strategy.Kind, 0, len(strategy.Kinds()))
	for _, k := range strategy.Kinds() {
		if k != strategy.KindFluid {
			kinds = append(kinds, k)
		}
	}
	profiles := make([]*strategy.Profile, len(kinds))
	for i, k := range kinds {
		p, err := strategy.NewProfileBuilder(k.String()).Strategy(k).Build()
		if err != nil {
			return nil, err
		}
		profiles[i] = p
	}

	out := make([]benchCase, o.keys)
	for i := range out {
		w := float32(320 + (i/len(profiles))*8)
		out[i] = benchCase{
			profile: profiles[i%len(profiles)],
			screen:  screen.New(w, w*16/9, 2, screen.UIModeNormal),
		}
	}
	return out, nil
}

func (o *benchOptions) run(cmd *cobra.Command, _ []string) error {
	a, err := o.root.load(cmd)
	if err != nil {
		return err
	}
	cases, err := o.cases()
	if err != nil {
		return err
	}

	op := a.logger.StartOperation("bench")
	start := time.Now()

	var wg sync.WaitGroup
	for g := 0; g < o.goroutines; g++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := 0; i < o.iterations; i++ {
				c := cases[(i+offset)%len(cases)]
				a.engine.Calculate(16, c.profile, c.screen)
			}
		}(g)
	}
	wg.Wait()

	elapsed := time.Since(start)
	op.End(cmd.Context(), "goroutines", o.goroutines)

	total := o.goroutines * o.iterations
	res := benchResult{
		Goroutines: o.goroutines,
		Operations: total,
		Duration:   elapsed,
		OpsPerSec:  float64(total) / elapsed.Seconds(),
		Cache:      a.engine.Stats(),
	}

	if o.output != OutputTable {
		return writeStructured(cmd.OutOrStdout(), o.output, res)
	}
	s := res.Cache
	return writeTable(cmd.OutOrStdout(), []string{"METRIC", "VALUE"}, [][]string{
		{"goroutines", fmt.Sprint(res.Goroutines)},
		{"operations", fmt.Sprint(res.Operations)},
		{"duration", res.Duration.Round(time.Microsecond).String()},
		{"ops/sec", fmt.Sprintf("%.0f", res.OpsPerSec)},
		{"cache", fmt.Sprint(s.Enabled)},
		{"capacity", fmt.Sprint(s.Capacity)},
		{"entries", fmt.Sprint(s.Entries)},
		{"hits", fmt.Sprint(s.Hits)},
		{"misses", fmt.Sprint(s.Misses)},
		{"hit rate", fmt.Sprintf("%.1f%%", s.HitRate*100)},
	})
}
