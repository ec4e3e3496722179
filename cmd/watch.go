package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/dimens/internal/config"
	"github.com/conneroisu/dimens/internal/watcher"
)

type watchOptions struct {
	root     *rootOptions
	screens  *screenList
	base     float32
	debounce time.Duration
}

func newWatchCommand(root *rootOptions) *cobra.Command {
	o := &watchOptions{root: root, screens: newScreenList("360x640,768x1024,1280x800")}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Reload a profile file on change and print sample values",
		Long: `Watch a profile file. Every time it is saved the profiles are reloaded,
the calculation cache is cleared and a sample table is printed. An invalid
file is reported and the previous profiles stay in effect.

Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: o.run,
	}

	fs := cmd.Flags()
	fs.Var(o.screens, "screens", "comma-separated WIDTHxHEIGHT sample screens")
	fs.Float32Var(&o.base, "base", 16, "base value")
	fs.DurationVar(&o.debounce, "debounce", watcher.DefaultDebounce, "quiet period before reloading")
	return cmd
}

func (o *watchOptions) run(cmd *cobra.Command, args []string) error {
	a, err := o.root.load(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	show := func(set *config.ProfileSet) {
		mu.Lock()
		defer mu.Unlock()
		rows := evaluate(a.engine, o.base, set.Profiles(), o.screens.screens)
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %d profiles\n", time.Now().Format(time.Kitchen), set.Len())
		if err := writeRows(cmd, o.screens.screens, rows); err != nil {
			a.logger.Error(ctx, err, "printing table")
		}
	}

	r, err := watcher.Watch(ctx, args[0], a.engine, a.logger, o.debounce)
	if err != nil {
		a.logger.Fatal(ctx, err, "cannot watch profile file", "path", args[0])
		return err
	}
	r.OnReload(show)
	show(r.Profiles())

	<-ctx.Done()
	a.logger.Debug(context.Background(), "watch stopped")
	return nil
}
