package game

import "math"

// Rand is the random source used for the anti-stall jitter and effects.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// CollisionEvent records a peg contact, mostly for debugging and replay.
type CollisionEvent struct {
	BallID int     `json:"ball_id"`
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Speed  float64 `json:"speed"`
	Jitter bool    `json:"jitter"`
}

// resolvePegs checks the ball against every peg in lattice order and resolves
// each overlap in turn. Overlaps are handled sequentially, not as a
// simultaneous contact solve; later pegs see the position and velocity left
// by earlier ones.
func resolvePegs(b *Ball, g Geometry, rng Rand) []CollisionEvent {
	var events []CollisionEvent
	contact := g.ContactDistance()

	for row := 0; row < g.PegRows; row++ {
		for col := 0; col <= row; col++ {
			peg := PegPosition(g, row, col)
			offset := b.Position.Minus(peg)
			if !(offset.Magnitude() < contact) {
				continue
			}

			angle := offset.Bearing()
			normal := FromAngle(angle, 1)
			target := peg.Plus(normal.Times(contact))

			// y grows downward: a ball lower than its contact point came in
			// from above and is put one extra radius above it. Anything else
			// lands on the contact circle and keeps falling past the peg.
			b.Position.X = target.X
			if b.Position.Y > target.Y {
				b.Position.Y = target.Y - g.BallRadius
			} else {
				b.Position.Y = target.Y
			}

			dot := b.Velocity.Dot(normal)
			b.Velocity = b.Velocity.Minus(normal.Times(2 * dot)).Times(PegRestitution)

			jitter := false
			if math.Abs(b.Velocity.X) < MinHorizontalVel {
				b.Velocity.X = (rng.Float64() - 0.5) * g.Scale / JitterDivisor
				jitter = true
			}

			events = append(events, CollisionEvent{
				BallID: b.ID,
				Row:    row,
				Col:    col,
				Speed:  b.Velocity.Magnitude(),
				Jitter: jitter,
			})
		}
	}
	return events
}
