package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/platnav/internal/game"
	"github.com/Garsondee/platnav/internal/level"
	"github.com/Garsondee/platnav/internal/sim"
)

const (
	windowW = 1280
	windowH = 800
)

func main() {
	var (
		levelPath string
		seed      int64
		wanderers int
	)
	flag.StringVar(&levelPath, "level", "", "YAML level file (default: built-in test level)")
	flag.Int64Var(&seed, "seed", 1, "random seed for wander goals")
	flag.IntVar(&wanderers, "wanderers", 0, "extra wandering agents")
	flag.Parse()

	opts := []sim.SimOption{sim.WithSeed(seed)}
	if levelPath != "" {
		lvl, err := level.Load(levelPath)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, sim.WithLevel(lvl))
	}
	opts = append(opts, sim.WithAgent(0, -300, -292, 330, -270))
	for i := 0; i < wanderers; i++ {
		opts = append(opts, sim.WithWanderer(i+1, -200+float64(i)*60, -292))
	}

	ebiten.SetWindowTitle("platnav")
	ebiten.SetWindowSize(windowW, windowH)
	if err := ebiten.RunGame(game.New(sim.NewSim(opts...), windowW, windowH)); err != nil {
		log.Fatal(err)
	}
}
