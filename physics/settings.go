package physics

import "github.com/go-gl/mathgl/mgl32"

// Settings is the simulation configuration singleton.
type Settings struct {
	Gravity mgl32.Vec3
	// Timestep is the fixed simulation step in seconds.
	Timestep float32
	// MaxStepsPerFrame caps catch-up after a slow frame; leftover time is dropped.
	MaxStepsPerFrame int
	Iterations       int

	LinearDamping  float32
	AngularDamping float32

	DefaultMaterial Material
	// RestitutionThreshold is the closing speed below which contacts do not bounce.
	RestitutionThreshold float32

	SleepLinearThreshold  float32
	SleepAngularThreshold float32
	TimeToSleep           float32

	// Baumgarte is the fraction of penetration corrected per step.
	Baumgarte float32
	// Slop is the penetration left uncorrected to keep resting contacts stable.
	Slop float32
	// ContactMargin is the distance at which separated points already produce
	// speculative contacts.
	ContactMargin float32

	Paused bool
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:               mgl32.Vec3{0, -9.81, 0},
		Timestep:              1.0 / 60,
		MaxStepsPerFrame:      4,
		Iterations:            12,
		LinearDamping:         0.05,
		AngularDamping:        0.1,
		DefaultMaterial:       Material{Friction: 0.5, Restitution: 0},
		RestitutionThreshold:  1,
		SleepLinearThreshold:  0.15,
		SleepAngularThreshold: 0.25,
		TimeToSleep:           0.5,
		Baumgarte:             0.2,
		Slop:                  0.005,
		ContactMargin:         0.05,
	}
}

// Diagnostics is written by StepSystem every frame.
type Diagnostics struct {
	Steps          int64
	StepsLastTick  int
	Contacts       int
	AwakeBodies    int
	SleepingBodies int
}
