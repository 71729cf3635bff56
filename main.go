package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/atmosphere/config"
	"github.com/milk9111/atmosphere/logging"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	pflag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for weather and ambience")
	pflag.Float64Var(&cfg.MasterVolume, "volume", cfg.MasterVolume, "ambience master volume (0-1)")
	pflag.Float64Var(&cfg.DayLength, "day", cfg.DayLength, "seconds per full day cycle")
	pflag.Float64Var(&cfg.StartProgress, "time", cfg.StartProgress, "starting cycle progress (0-100)")
	pflag.BoolVar(&cfg.AutoWeather, "auto", cfg.AutoWeather, "change weather automatically")
	pflag.StringVar(&cfg.PrefabDir, "prefabs", cfg.PrefabDir, "directory checked for prefab overrides")
	pflag.BoolVar(&cfg.HotReload, "watch", cfg.HotReload, "reload prefabs when they change on disk")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "error, warn, info, debug or trace")
	verbose := pflag.CountP("verbose", "v", "increase log verbosity (repeatable)")
	pflag.Parse()

	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}
	if *verbose > 0 {
		logging.SetVerbosity(*verbose)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("atmosphere")

	game, err := NewGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
