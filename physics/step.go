package physics

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/ecs"
)

// simBody is the solver's working copy of one body for the current frame.
type simBody struct {
	node bodyNode
	kind BodyKind

	origin     mgl32.Vec3
	rotation   mgl32.Quat
	axes       mgl32.Mat3
	com        mgl32.Vec3
	localCOM   mgl32.Vec3
	linear     mgl32.Vec3
	angular    mgl32.Vec3
	invMass    float32
	invInertia mgl32.Mat3
	localInv   mgl32.Mat3
	material   Material

	parts  []MassPart
	shapes []worldShape
	reach  float32
	awake  bool
}

func (b *simBody) movable() bool {
	return b.awake && b.kind != Static
}

// updatePose recomputes everything derived from origin and rotation.
func (b *simBody) updatePose() {
	b.axes = b.rotation.Mat4().Mat3()
	b.com = b.origin.Add(b.axes.Mul3x1(b.localCOM))
	if b.kind == Dynamic && b.awake {
		b.invInertia = b.axes.Mul3(b.localInv).Mul3(b.axes.Transpose())
	} else {
		b.invInertia = mgl32.Mat3{}
	}

	b.shapes = b.shapes[:0]
	for _, part := range b.parts {
		center := b.origin.Add(b.axes.Mul3x1(part.Local.Translation))
		b.shapes = append(b.shapes, worldShape{
			collider: part.Collider,
			center:   center,
			axes:     b.axes.Mul3(part.Local.Rotation.Mat4().Mat3()),
			radius:   part.Collider.BoundingRadius(),
		})
	}
}

// speed bounds how fast any point of the body moves.
func (b *simBody) speed() float32 {
	if !b.movable() {
		return 0
	}
	return b.linear.Len() + b.angular.Len()*b.reach
}

// StepSystem advances the simulation in fixed steps. Leftover frame time is
// carried to the next frame.
type StepSystem struct {
	Bodies      ecs.Query[bodyNode]
	Parts       ecs.Query[partNode]
	Settings    ecs.Singleton[Settings]
	Diagnostics ecs.Singleton[Diagnostics]

	Log *log.Logger

	accumulator float32
	contacts    []contact
}

func (s *StepSystem) Execute(frame *ecs.UpdateFrame) {
	settings := s.Settings.Get()
	if settings == nil {
		defaults := DefaultSettings()
		settings = &defaults
	}
	diagnostics := s.Diagnostics.Get()
	if diagnostics == nil {
		diagnostics = &Diagnostics{}
	}
	diagnostics.StepsLastTick = 0

	if settings.Paused || settings.Timestep <= 0 {
		return
	}

	s.accumulator += float32(frame.DeltaTime)
	if limit := settings.Timestep * float32(max(settings.MaxStepsPerFrame, 1)); s.accumulator > limit {
		s.accumulator = limit
	}
	if s.accumulator < settings.Timestep {
		return
	}

	bodies := s.gather(settings)
	for s.accumulator >= settings.Timestep {
		s.step(bodies, settings)
		s.accumulator -= settings.Timestep
		diagnostics.StepsLastTick++
		diagnostics.Steps++
	}
	diagnostics.Contacts = len(s.contacts)
	diagnostics.AwakeBodies, diagnostics.SleepingBodies = 0, 0

	for _, b := range bodies {
		s.writeBack(b, diagnostics)
	}
}

// gather builds solver bodies from storage and wakes bodies that were moved
// since the last write.
func (s *StepSystem) gather(settings *Settings) []*simBody {
	bodies := make([]*simBody, 0, s.Bodies.Len())
	for _, node := range s.Bodies.Iter() {
		b := &simBody{
			node:     node,
			kind:     node.RigidBody.Kind,
			origin:   node.Transform.Translation,
			rotation: node.Transform.Rotation.Normalize(),
			material: settings.DefaultMaterial,
			parts:    bodyParts(node, &s.Parts),
		}
		if node.Material != nil {
			b.material = *node.Material
		}

		if b.kind != Static {
			if node.Linear == nil || node.Angular == nil || node.Activity == nil {
				// MassSystem has not equipped this body yet.
				continue
			}
			b.linear = node.Linear.Vec3
			b.angular = node.Angular.Vec3
			b.awake = s.checkAwake(node)
		}
		if b.kind == Dynamic {
			if node.Mass == nil {
				continue
			}
			b.invMass = node.Mass.InvMass
			b.localCOM = node.Mass.CenterOfMass
			b.localInv = node.Mass.InvInertia
			if !b.awake {
				b.invMass = 0
			}
		}

		for _, part := range b.parts {
			reach := part.Local.Translation.Sub(b.localCOM).Len() + part.Collider.BoundingRadius()
			b.reach = max(b.reach, reach)
		}
		b.updatePose()
		bodies = append(bodies, b)
	}
	return bodies
}

func (s *StepSystem) checkAwake(node bodyNode) bool {
	activity := node.Activity
	if !activity.tracked {
		return true
	}
	if !activity.Sleeping {
		return true
	}

	moved := !node.Transform.ApproxEqual(activity.LastPose, 1e-6)
	pushed := node.Linear.Vec3 != (mgl32.Vec3{}) || node.Angular.Vec3 != (mgl32.Vec3{})
	if moved || pushed {
		activity.Wake()
		s.logf("body %s woke up", node.EntityId)
		return true
	}
	return false
}

func (s *StepSystem) wake(b *simBody) {
	if b.awake || b.kind != Dynamic {
		return
	}
	b.awake = true
	b.invMass = b.node.Mass.InvMass
	b.node.Activity.Wake()
	b.updatePose()
	s.logf("body %s woke up on contact", b.node.EntityId)
}

func (s *StepSystem) step(bodies []*simBody, settings *Settings) {
	dt := settings.Timestep

	for _, b := range bodies {
		if b.kind != Dynamic || !b.awake {
			continue
		}
		b.linear = b.linear.Add(settings.Gravity.Mul(dt)).Mul(1 / (1 + dt*settings.LinearDamping))
		b.angular = b.angular.Mul(1 / (1 + dt*settings.AngularDamping))
	}

	s.contacts = s.contacts[:0]
	for i, a := range bodies {
		for _, b := range bodies[i+1:] {
			if !a.movable() && !b.movable() {
				continue
			}
			margin := settings.ContactMargin + (a.speed()+b.speed())*dt
			before := len(s.contacts)
			for _, sa := range a.shapes {
				for _, sb := range b.shapes {
					s.contacts = collideShapes(s.contacts, a, sa, b, sb, margin)
				}
			}
			if len(s.contacts) > before {
				s.wakePair(a, b)
			}
		}
	}

	for i := range s.contacts {
		s.contacts[i].prepare(settings, dt)
	}
	for range settings.Iterations {
		for i := range s.contacts {
			s.contacts[i].solve()
		}
	}

	for _, b := range bodies {
		if !b.movable() {
			continue
		}
		s.integrate(b, dt)
		if b.kind == Dynamic {
			s.updateSleep(b, settings, dt)
		}
	}
}

// wakePair wakes a sleeping dynamic body touched by a moving one. The woken
// body joins the solver from the next step.
func (s *StepSystem) wakePair(a, b *simBody) {
	if a.movable() && b.kind == Dynamic && !b.awake {
		s.wake(b)
	}
	if b.movable() && a.kind == Dynamic && !a.awake {
		s.wake(a)
	}
}

// integrate moves the body by its velocities, rotating about the center of mass.
func (s *StepSystem) integrate(b *simBody, dt float32) {
	com := b.com.Add(b.linear.Mul(dt))

	spin := mgl32.Quat{W: 0, V: b.angular.Mul(0.5 * dt)}
	b.rotation = b.rotation.Add(spin.Mul(b.rotation)).Normalize()

	axes := b.rotation.Mat4().Mat3()
	b.origin = com.Sub(axes.Mul3x1(b.localCOM))
	b.updatePose()
}

func (s *StepSystem) updateSleep(b *simBody, settings *Settings, dt float32) {
	activity := b.node.Activity
	if b.linear.Len() > settings.SleepLinearThreshold || b.angular.Len() > settings.SleepAngularThreshold {
		activity.IdleTime = 0
		return
	}

	activity.IdleTime += dt
	if activity.IdleTime < settings.TimeToSleep {
		return
	}

	activity.Sleeping = true
	b.awake = false
	b.linear = mgl32.Vec3{}
	b.angular = mgl32.Vec3{}
	b.invMass = 0
	b.updatePose()
	s.logf("body %s asleep", b.node.EntityId)
}

func (s *StepSystem) writeBack(b *simBody, diagnostics *Diagnostics) {
	if b.kind == Static {
		return
	}

	node := b.node
	node.Transform.Translation = b.origin
	node.Transform.Rotation = b.rotation
	node.Linear.Vec3 = b.linear
	node.Angular.Vec3 = b.angular

	node.Activity.LastPose = *node.Transform
	node.Activity.tracked = true

	if node.Activity.Sleeping {
		diagnostics.SleepingBodies++
	} else {
		diagnostics.AwakeBodies++
	}
}

func (s *StepSystem) logf(format string, args ...any) {
	if s.Log != nil {
		s.Log.Printf(format, args...)
	}
}
