package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STARTING_SCORE", "")
	t.Setenv("FRAME_RATE", "")
	cfg := Load()
	if cfg.StartingScore != 1000 {
		t.Errorf("StartingScore=%v, want 1000", cfg.StartingScore)
	}
	if cfg.FrameRate != 60 {
		t.Errorf("FrameRate=%d, want 60", cfg.FrameRate)
	}
	if cfg.BoardFile != "configs/board.yaml" {
		t.Errorf("BoardFile=%q", cfg.BoardFile)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STARTING_SCORE", "250.5")
	t.Setenv("MAX_BALLS_PER_DROP", "12")
	t.Setenv("BROADCAST_EVERY", "not-a-number")
	cfg := Load()
	if cfg.StartingScore != 250.5 {
		t.Errorf("StartingScore=%v, want 250.5", cfg.StartingScore)
	}
	if cfg.MaxBallsPerDrop != 12 {
		t.Errorf("MaxBallsPerDrop=%d, want 12", cfg.MaxBallsPerDrop)
	}
	if cfg.BroadcastEvery != 2 {
		t.Errorf("BroadcastEvery=%d, want default 2 for bad input", cfg.BroadcastEvery)
	}
}
