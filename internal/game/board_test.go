package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseBoard(t *testing.T) {
	b, err := ParseBoard([]byte("peg_rows: 8\nwidth_factor: 1\nmultipliers: [5, 1, 0.5, 1, 5]\n"))
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if b.PegRows != 8 || b.PegColumns() != 9 || len(b.Multipliers) != 5 {
		t.Errorf("unexpected board %+v", b)
	}
	if b.MaxMultiplier() != 5 {
		t.Errorf("MaxMultiplier=%v, want 5", b.MaxMultiplier())
	}
}

func TestParseBoardRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"no rows":       "peg_rows: 0\nwidth_factor: 1\nmultipliers: [1]\n",
		"bad width":     "peg_rows: 3\nwidth_factor: -1\nmultipliers: [1]\n",
		"no slots":      "peg_rows: 3\nwidth_factor: 1\nmultipliers: []\n",
		"zero slot":     "peg_rows: 3\nwidth_factor: 1\nmultipliers: [1, 0]\n",
		"not yaml list": "peg_rows: 3\nwidth_factor: 1\nmultipliers: high\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseBoard([]byte(doc)); err == nil {
				t.Errorf("expected error for %q", doc)
			}
		})
	}
}

func TestLoadBoardMissingFileUsesDefault(t *testing.T) {
	b, err := LoadBoard(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if b.PegRows != DefaultPegRows || len(b.Multipliers) != 11 {
		t.Errorf("expected default board, got %+v", b)
	}
}

func TestLoadBoardFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, []byte("peg_rows: 4\nwidth_factor: 1.5\nmultipliers: [3, 1, 3]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := LoadBoard(path)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if b.PegRows != 4 || b.WidthFactor != 1.5 {
		t.Errorf("unexpected board %+v", b)
	}
}
