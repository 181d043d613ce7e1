package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/portalworks/logging"
)

func main() {
	levelName := flag.String("level", "demo", "level name in levels/ (basename, .yaml optional)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	debugPhysics := flag.Bool("physics", false, "draw chipmunk shapes")
	watch := flag.Bool("watch", true, "reload the level when files under levels/ change")
	flag.Parse()

	logger, err := logging.New(*logLevel, true)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("portalworks")

	game, err := NewGame(*levelName, logger, *watch)
	if err != nil {
		logger.Fatal("viewer: load level", zap.String("level", *levelName), zap.Error(err))
	}
	defer game.Close()
	game.debugPhysics = *debugPhysics

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("viewer: run", zap.Error(err))
	}
}
