// Command portalsim runs a level headless and reports the final portal states.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
	"github.com/milk9111/portalworks/ecs/entity"
	"github.com/milk9111/portalworks/ecs/system"
	"github.com/milk9111/portalworks/logging"
	"github.com/milk9111/portalworks/trace"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogConsole)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, os.Stdout); err != nil {
		logger.Error("portalsim: run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg Config, logger *zap.Logger, out io.Writer) (err error) {
	opts := []system.Option{system.WithLogger(logger)}
	if cfg.Trace != "" {
		tw, err := trace.Create(cfg.Trace)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := tw.Close(); err == nil {
				err = cerr
			}
			logger.Info("portalsim: trace written", zap.String("path", cfg.Trace), zap.Int("records", tw.Lines()))
		}()
		opts = append(opts, system.WithEventSink(tw))
	}

	teleports := 0
	opts = append(opts, system.WithTeleportHook(func(ecs.Entity) { teleports++ }))

	scene, err := entity.LoadScene(cfg.Level, opts...)
	if err != nil {
		return err
	}
	logger.Info("portalsim: level loaded",
		zap.String("level", scene.Name),
		zap.Int("portals", len(scene.Registry.PortalNames())),
		zap.Int("ticks", cfg.Ticks),
		zap.Float64("dt", cfg.DT),
	)

	for i := 0; i < cfg.Ticks; i++ {
		scene.Step(cfg.DT)
	}

	logger.Info("portalsim: done",
		zap.Uint64("tick", scene.World.Tick()),
		zap.Float64("time", scene.World.Time()),
		zap.Int("teleported", teleports),
	)
	return report(scene, out)
}

// report prints one row per portal.
func report(scene *entity.Scene, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PORTAL\tPHASE\tCOOLDOWN\tOCCUPANCY\tIN TRANSIT\tDISABLED")
	for _, name := range scene.Registry.PortalNames() {
		e, ok := scene.Registry.Portal(name)
		if !ok {
			continue
		}
		rt, _ := ecs.Get(scene.World, e, component.PortalRuntimeComponent)
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t%d\t%t\n",
			name,
			system.PortalPhase(scene.World, e),
			rt.Cooldown,
			rt.Occupancy,
			len(rt.InTransit),
			rt.Disabled,
		)
	}
	return tw.Flush()
}
