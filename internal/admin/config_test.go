package admin

import (
	"testing"

	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/models"
)

func TestValidateValue(t *testing.T) {
	cases := []struct {
		typ, value string
		ok         bool
	}{
		{"int", "12", true},
		{"int", "-1", false},
		{"int", "1.5", false},
		{"float", "250.75", true},
		{"float", "NaN", false},
		{"float", "-3", false},
		{"bool", "true", true},
		{"bool", "yes", false},
		{"string", "anything", true},
	}
	for _, c := range cases {
		err := ValidateValue(c.typ, c.value)
		if (err == nil) != c.ok {
			t.Errorf("ValidateValue(%s, %q) err=%v, want ok=%v", c.typ, c.value, err, c.ok)
		}
	}
}

func TestApplyRuntimeConfig(t *testing.T) {
	cfg := &config.Config{StartingScore: 1000, MaxBallsPerDrop: 100, SessionIdleMinutes: 15, BroadcastEvery: 2}
	n := ApplyRuntimeConfig([]models.RuntimeConfig{
		{Key: "starting_score", Value: "500"},
		{Key: "max_balls_per_drop", Value: "25"},
		{Key: "broadcast_every", Value: "0"},
		{Key: "session_idle_minutes", Value: "oops"},
		{Key: "unknown", Value: "1"},
	}, cfg)

	if n != 2 {
		t.Errorf("applied %d overrides, want 2", n)
	}
	if cfg.StartingScore != 500 || cfg.MaxBallsPerDrop != 25 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.BroadcastEvery != 2 || cfg.SessionIdleMinutes != 15 {
		t.Errorf("invalid overrides applied: %+v", cfg)
	}
}

func TestIPAllowed(t *testing.T) {
	open := &models.AdminAccount{}
	if !IPAllowed(open, "10.0.0.1") {
		t.Error("empty allow list should allow any IP")
	}
	locked := &models.AdminAccount{AllowedIPs: []string{"192.168.1.5"}}
	if IPAllowed(locked, "10.0.0.1") || !IPAllowed(locked, "192.168.1.5") {
		t.Error("allow list not enforced")
	}
}
