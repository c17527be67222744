package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/layerdraw/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a layerdraw.toml config file")
	debug := flag.Bool("debug", false, "show the draw order overlay")
	sceneName := flag.String("scene", "", "scene name in scenes/ (basename, .yaml optional)")
	strict := flag.Bool("strict", false, "fail on duplicate renderable registration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		cfg.Debug = true
	}
	if *sceneName != "" {
		cfg.Scene.Name = *sceneName
	}
	if *strict {
		cfg.Order.Strict = true
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	game, err := newGame(cfg, logger)
	if err != nil {
		logger.Fatal("start", zap.Error(err))
	}
	defer game.Close()

	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("run", zap.Error(err))
	}
}
