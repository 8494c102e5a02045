package sim

const (
	DefaultFieldSize = 800.0
	MaxDt            = 0.1 // seconds

	AsteroidVertices  = 20
	AsteroidMinRadius = 40.0
	AsteroidMaxRadius = 100.0
	FragmentMinRadius = 20.0
	FragmentMaxRadius = 50.0
	AsteroidSpeedMin  = 1.0
	AsteroidSpeedMax  = 1.7
	AsteroidSpeedStep = 0.1
	FragmentsMin      = 2
	FragmentsMax      = 3
	RepopulateCount   = 2
	SpawnChance       = 0.005 // per tick
	MaxAsteroids      = 11
	InitialAsteroids  = 3

	ShipScale       = 7.0
	ShipNose        = 2     // vertex index
	ShipRotateSpeed = 4.0   // radians/s
	ShipThrust      = 10.0  // accel added per thrust press
	ShipMaxSpeed    = 700.0 // thrust is refused at or above this
	ShipDamping     = 0.98  // velocity multiplier per tick
	ShipAccelScale  = 50.0

	LaserSpeed     = 400.0
	LaserMaxTravel = 1000.0

	HitScore = 10

	StarCount     = 200
	StarMinRadius = 1.0
	StarMaxRadius = 3.0
	StarTwinkle   = 0.01 // per frame
)
