package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/playmatatu/plinko/internal/game"
	"github.com/playmatatu/plinko/internal/stats"
)

func main() {
	boardFile := flag.String("board", "configs/board.yaml", "board definition (YAML)")
	balls := flag.Int("balls", 10000, "number of balls to drop")
	batch := flag.Int("batch", 100, "balls per drop")
	wager := flag.Float64("wager", 1, "wager per ball")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "physics seed")
	width := flag.Float64("width", 800, "viewport width")
	height := flag.Float64("height", 600, "viewport height")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	flag.Parse()

	board, err := game.LoadBoard(*boardFile)
	if err != nil {
		log.Fatalf("Failed to load board: %v", err)
	}

	start := time.Now()
	rep, err := stats.Run(stats.Options{
		Board:     board,
		Balls:     *balls,
		BatchSize: *batch,
		Wager:     *wager,
		Seed:      *seed,
		Width:     *width,
		Height:    *height,
	})
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		return
	}

	fmt.Printf("seed %d, %d balls, %d frames, %d bounces in %s\n", *seed, rep.Balls, rep.Frames, rep.Bounces, time.Since(start).Round(time.Millisecond))
	fmt.Printf("wagered %.2f, returned %.2f, RTP %.2f%% (misses %d, anomalies %d)\n\n", rep.Wagered, rep.Returned, rep.RTP*100, rep.Misses, rep.Anomalies)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "slot\tmult\thits\thit %\twidth %\treturned\t")
	for _, s := range rep.Slots {
		fmt.Fprintf(tw, "%d\t%gx\t%d\t%.2f\t%.2f\t%.2f\t\n", s.Index, s.Multiplier, s.Hits, s.HitRate*100, s.WidthShare*100, s.Returned)
	}
	tw.Flush()
}
