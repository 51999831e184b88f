package game

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Board describes the fixed layout of a plinko field: how many peg rows it has,
// how far the triangle is stretched horizontally, and the slot multipliers from
// left to right.
type Board struct {
	PegRows     int       `json:"peg_rows" yaml:"peg_rows"`
	WidthFactor float64   `json:"width_factor" yaml:"width_factor"`
	Multipliers []float64 `json:"multipliers" yaml:"multipliers"`
}

// DefaultBoard returns the 10-row board with 11 symmetric slots.
func DefaultBoard() Board {
	return Board{
		PegRows:     DefaultPegRows,
		WidthFactor: DefaultWidthFactor,
		Multipliers: []float64{100, 10, 2.5, 1, 0.5, 0.25, 0.5, 1, 2.5, 10, 100},
	}
}

// PegColumns is the width of the lattice in peg spacings.
func (b Board) PegColumns() int {
	return b.PegRows + 1
}

// Validate checks that the board can produce a usable geometry.
func (b Board) Validate() error {
	if b.PegRows < 1 {
		return fmt.Errorf("peg rows must be at least 1, got %d", b.PegRows)
	}
	if !isFinite(b.WidthFactor) || b.WidthFactor <= 0 {
		return fmt.Errorf("width factor must be positive, got %v", b.WidthFactor)
	}
	if len(b.Multipliers) == 0 {
		return errors.New("board has no slots")
	}
	for i, m := range b.Multipliers {
		if !isFinite(m) || m <= 0 {
			return fmt.Errorf("slot %d multiplier must be positive, got %v", i, m)
		}
	}
	return nil
}

// MaxMultiplier returns the largest slot multiplier.
func (b Board) MaxMultiplier() float64 {
	max := 0.0
	for _, m := range b.Multipliers {
		max = math.Max(max, m)
	}
	return max
}

func (b Board) clone() Board {
	c := b
	c.Multipliers = append([]float64(nil), b.Multipliers...)
	return c
}

// ParseBoard decodes a YAML board definition and validates it.
func ParseBoard(data []byte) (Board, error) {
	var b Board
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Board{}, fmt.Errorf("failed to parse board: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// LoadBoard reads a board from path. A missing file yields the default board.
func LoadBoard(path string) (Board, error) {
	if path == "" {
		return DefaultBoard(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("[PLINKO] board file %s not found; using default board", path)
		return DefaultBoard(), nil
	}
	if err != nil {
		return Board{}, fmt.Errorf("failed to read board file: %w", err)
	}
	b, err := ParseBoard(data)
	if err != nil {
		return Board{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
