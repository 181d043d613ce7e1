package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/ecs"
	"github.com/milk9111/portalworks/ecs/component"
	"github.com/milk9111/portalworks/ecs/entity"
	"github.com/milk9111/portalworks/ecs/system"
	"github.com/milk9111/portalworks/levels"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	tickRate   = 60
	panSpeed   = 8
)

var background = color.RGBA{0x12, 0x14, 0x1c, 0xff}

type Game struct {
	levelName string
	logger    *zap.Logger
	scene     *entity.Scene
	watcher   *levels.Watcher

	view         system.View
	paused       bool
	debugPhysics bool
	showTimings  bool
	frozen       bool
	teleports    int
	status       string
}

func NewGame(levelName string, logger *zap.Logger, watch bool) (*Game, error) {
	g := &Game{
		levelName: levelName,
		logger:    logger,
		view:      system.View{Zoom: 1},
	}
	if err := g.reload(); err != nil {
		return nil, err
	}

	if watch {
		var dirs []string
		for _, dir := range []string{"levels", "levels/scripts"} {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				dirs = append(dirs, dir)
			}
		}
		if len(dirs) > 0 {
			w, err := levels.NewWatcher(dirs...)
			if err != nil {
				logger.Warn("viewer: hot reload disabled", zap.Error(err))
			} else {
				g.watcher = w
			}
		}
	}
	return g, nil
}

// reload rebuilds the scene from disk. On failure the running scene is kept.
func (g *Game) reload() error {
	scene, err := entity.LoadScene(g.levelName,
		system.WithLogger(g.logger),
		system.WithTeleportHook(func(ecs.Entity) { g.teleports++ }),
	)
	if err != nil {
		return err
	}
	scene.Pipeline.Scheduler().SetEnabled(system.StagePhysics, !g.frozen)
	scene.World.Events().Subscribe(system.EventScriptNotification, func(evt ecs.Event) {
		g.status = fmt.Sprintf("script: %v", evt.Data)
	})
	scene.World.Events().Subscribe(system.EventActivated, func(evt ecs.Event) {
		if a, ok := evt.Data.(system.ActivationEvent); ok {
			if n, ok := ecs.Get(scene.World, a.Target, component.NameComponent); ok {
				g.status = n.Value + " activated"
			}
		}
	})
	g.scene = scene
	g.teleports = 0
	g.status = fmt.Sprintf("loaded %s", scene.Name)
	g.logger.Info("viewer: level loaded", zap.String("level", scene.Name))
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debugPhysics = !g.debugPhysics
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.showTimings = !g.showTimings
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.frozen = !g.frozen
		g.scene.Pipeline.Scheduler().SetEnabled(system.StagePhysics, !g.frozen)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.reload(); err != nil {
			g.status = "reload failed: " + err.Error()
			g.logger.Warn("viewer: reload failed", zap.Error(err))
		}
	}
	g.pan()

	step := !g.paused || inpututil.IsKeyJustPressed(ebiten.KeyPeriod)
	if step {
		g.scene.Step(1.0 / tickRate)
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Debug("viewer: file changed", zap.String("path", change.Path))
			if err := g.reload(); err != nil {
				g.status = "reload failed: " + err.Error()
				g.logger.Warn("viewer: reload failed", zap.String("path", change.Path), zap.Error(err))
			}
		case err, ok := <-g.watcher.Errors:
			if ok && err != nil {
				g.logger.Warn("viewer: watcher", zap.Error(err))
			}
			return
		default:
			return
		}
	}
}

func (g *Game) pan() {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.view.CamX -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.view.CamX += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.view.CamY -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.view.CamY += panSpeed
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.view.Zoom *= 1.25
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.view.Zoom /= 1.25
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	system.DrawOverlay(g.scene.World, screen, g.view)
	if g.debugPhysics {
		system.DrawPhysicsDebug(g.scene.Pipeline.Physics.Space(), screen, g.view)
	}

	if g.showTimings {
		for i, st := range g.scene.Pipeline.Scheduler().Timings() {
			line := fmt.Sprintf("%-8s %v", st.Name, st.Duration)
			if st.Disabled {
				line = fmt.Sprintf("%-8s off", st.Name)
			}
			ebitenutil.DebugPrintAt(screen, line, baseWidth-160, 10+i*16)
		}
	}

	hint := "P pause  . step  R reload  F1 physics  F2 timings  F3 freeze  arrows pan  +/- zoom"
	if g.paused {
		hint = "[paused]  " + hint
	}
	ebitenutil.DebugPrintAt(screen, hint, 10, baseHeight-40)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  teleports %d  FPS %.1f", g.status, g.teleports, ebiten.ActualFPS()), 10, baseHeight-24)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
