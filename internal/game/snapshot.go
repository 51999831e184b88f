package game

// BallView is what a renderer needs to draw a ball.
type BallView struct {
	ID      int     `json:"id"`
	BatchID int     `json:"batch_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
}

// Snapshot is a read-only copy of the table after a step.
type Snapshot struct {
	Frame       uint64     `json:"frame"`
	Status      Status     `json:"status"`
	Geometry    Geometry   `json:"geometry"`
	Balls       []BallView `json:"balls"`
	Slots       []SlotBand `json:"slots"`
	Economy     Economy    `json:"economy"`
	QueuedBalls int        `json:"queued_balls"`
	Shake       ShakeState `json:"shake"`
	Particles   []Particle `json:"particles,omitempty"`
}

// Snapshot copies the current state for rendering or broadcast.
func (s *Simulation) Snapshot() Snapshot {
	balls := make([]BallView, len(s.balls))
	for i, b := range s.balls {
		balls[i] = BallView{
			ID:      b.ID,
			BatchID: b.BatchID,
			X:       b.Position.X,
			Y:       b.Position.Y,
			Radius:  s.geom.BallRadius,
		}
	}
	return Snapshot{
		Frame:       s.frame,
		Status:      s.Status(),
		Geometry:    s.geom,
		Balls:       balls,
		Slots:       s.Slots(),
		Economy:     *s.econ,
		QueuedBalls: s.QueuedBalls(),
		Shake:       s.shake.state(),
		Particles:   append([]Particle(nil), s.particles...),
	}
}
