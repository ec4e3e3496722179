//go:build property

package watcher

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDebouncerProperties validates the batching rules of the debouncer.
func TestDebouncerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("a batch holds each path once with its last event", prop.ForAll(
		func(ids []int, types []int) bool {
			d := &Debouncer{
				delay:  time.Hour,
				events: make(chan ChangeEvent, 1),
				output: make(chan []ChangeEvent, 1),
			}
			defer d.stop()

			last := make(map[string]EventType)
			for i, id := range ids {
				ev := ChangeEvent{
					Path: fmt.Sprintf("p%d.yml", id),
					Type: EventType(types[i%len(types)]),
				}
				d.addEvent(ev)
				last[ev.Path] = ev.Type
			}
			d.flush()

			if len(ids) == 0 {
				return len(d.output) == 0
			}
			batch := <-d.output
			if len(batch) != len(last) {
				return false
			}
			for _, ev := range batch {
				if last[ev.Path] != ev.Type {
					return false
				}
			}
			return len(d.pending) == 0
		},
		gen.SliceOf(gen.IntRange(0, 8)),
		gen.SliceOfN(4, gen.IntRange(0, 3)),
	))

	properties.TestingRun(t)
}
