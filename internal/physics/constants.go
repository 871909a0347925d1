package physics

const (
	DefaultGravity = 9.8

	GroundProbeDistance    = 0.001
	DefaultFloorSnapLength = 0.1
	DefaultFloorMaxAngle   = 45.0 // degrees
	CollisionAxisTolerance = 1e-9

	StandingWidth   = 0.6
	StandingHeight  = 1.8
	CrouchingWidth  = 0.6
	CrouchingHeight = 1.3
	ProningWidth    = 0.6
	ProningHeight   = 0.6

	ProbeStartHeight = 0.1
	ProneProbeHeight = 0.3
	ProneProbeReach  = 1.0
)
