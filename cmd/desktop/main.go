package main

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/desktop"
	"github.com/playmatatu/plinko/internal/game"
	"github.com/quasilyte/gdata/v2"
)

func main() {
	cfg := config.Load()

	board, err := game.LoadBoard(cfg.BoardFile)
	if err != nil {
		log.Fatalf("Failed to load board: %v", err)
	}

	manager, err := gdata.Open(gdata.Config{AppName: "plinko"})
	if err != nil {
		log.Printf("[DESKTOP] save storage unavailable, score will not persist: %v", err)
		manager = nil
	}

	sounds := desktop.NewSounds(audio.NewContext(desktop.SampleRate))

	app, err := desktop.NewApp(board, cfg.StartingScore, uint64(time.Now().UnixNano()), desktop.NewSaveStore(manager), sounds)
	if err != nil {
		log.Fatalf("Failed to build table: %v", err)
	}

	ebiten.SetWindowSize(800, 600)
	ebiten.SetWindowTitle("Plinko")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(app); err != nil && err != ebiten.Termination {
		log.Fatalf("Game exited: %v", err)
	}
	app.Close()
}
