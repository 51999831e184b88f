package game

// Physics and layout constants for the plinko board.
// Values are tuned per frame (the simulation steps once per rendered frame).

const (
	DefaultPegRows     = 10
	DefaultWidthFactor = 1.2

	MarginRatio   = 0.08 // of the smaller viewport dimension
	WallWidth     = 10.0
	WallMargin    = 45.0
	MinViewport   = 64.0
	PegRadiusDiv  = 12.0 // pegRadius = scale / PegRadiusDiv
	BallPegRatio  = 1.5  // ballRadius = pegRadius * BallPegRatio
	SlotHeightMul = 1.5  // slotHeight = scale * SlotHeightMul

	GravityPerFrame  = 0.2 / 200 // multiplied by scale
	PegRestitution   = 0.3
	WallRestitution  = -0.5
	MinHorizontalVel = 0.1
	JitterDivisor    = 22.5 // random vx = (rand - 0.5) * scale / JitterDivisor

	SlotWeightExponent = 0.3
	SlotShrinkFactor   = 0.9

	MinWager       = 0.01
	DropIntervalMs = 100.0

	BigTierMultiplier     = 10.0
	JackpotTierMultiplier = 100.0
	ShakeFrames           = 10
	ShakeMagnitude        = 5.0

	ParticlesPerBurst = 20
	ParticleLifetime  = 30.0
)
