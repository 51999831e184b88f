package game

import "math"

// Particle is a short-lived spark emitted when a ball lands in a high tier.
type Particle struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Alpha float64 `json:"alpha"`
	Size  int     `json:"size"`
}

func newParticle(x, y float64, rng Rand) Particle {
	return Particle{
		X:     x,
		Y:     y,
		VX:    rng.Float64()*2 - 1,
		VY:    rng.Float64()*-2 - 1,
		Alpha: 1,
		Size:  int(math.Floor(rng.Float64()*16)) + 5,
	}
}

func (p *Particle) update() {
	p.X += p.VX
	p.Y += p.VY
	p.Alpha -= 1 / ParticleLifetime
}

func (p Particle) alive() bool {
	return p.Alpha > 0
}

// ShakeState is the screen-shake signal for the renderer.
type ShakeState struct {
	Active     bool    `json:"active"`
	FramesLeft int     `json:"frames_left"`
	OffsetX    float64 `json:"offset_x"`
	OffsetY    float64 `json:"offset_y"`
}

type shaker struct {
	frames  int
	offsetX float64
	offsetY float64
}

func (s *shaker) start(frames int) {
	s.frames = frames
}

// step advances one frame, picking a new offset while shaking.
func (s *shaker) step(rng Rand) {
	if s.frames <= 0 {
		s.offsetX, s.offsetY = 0, 0
		return
	}
	s.offsetX = (rng.Float64() - 0.5) * ShakeMagnitude
	s.offsetY = (rng.Float64() - 0.5) * ShakeMagnitude
	s.frames--
}

func (s *shaker) state() ShakeState {
	return ShakeState{
		Active:     s.frames > 0 || s.offsetX != 0 || s.offsetY != 0,
		FramesLeft: s.frames,
		OffsetX:    s.offsetX,
		OffsetY:    s.offsetY,
	}
}
