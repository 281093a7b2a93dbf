package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/transform"
)

// MassPart is one collider of a compound body, placed in body-local space.
type MassPart struct {
	Collider Collider
	Local    transform.Transform
	Density  float32
}

// ComputeMassProperties combines parts into the mass, center of mass and
// inertia of one rigid body. Each part's inertia is rotated into body axes and
// shifted to the common center of mass with the parallel axis theorem.
func ComputeMassProperties(parts []MassPart) MassProperties {
	var total float32
	var weighted mgl32.Vec3
	masses := make([]float32, len(parts))
	for i, part := range parts {
		density := part.Density
		if density <= 0 {
			density = 1
		}
		masses[i] = density * part.Collider.Volume()
		total += masses[i]
		weighted = weighted.Add(part.Local.Translation.Mul(masses[i]))
	}
	if total <= 0 {
		return MassProperties{}
	}
	com := weighted.Mul(1 / total)

	var inertia mgl32.Mat3
	for i, part := range parts {
		rot := part.Local.Rotation.Mat4().Mat3()
		local := mgl32.Diag3(part.Collider.PrincipalInertia(masses[i]))
		rotated := rot.Mul3(local).Mul3(rot.Transpose())

		d := part.Local.Translation.Sub(com)
		shift := mgl32.Ident3().Mul(d.Dot(d)).Sub(outer(d, d)).Mul(masses[i])
		inertia = inertia.Add(rotated).Add(shift)
	}

	return MassProperties{
		Mass:         total,
		InvMass:      1 / total,
		CenterOfMass: com,
		Inertia:      inertia,
		InvInertia:   inertia.Inv(),
	}
}

func outer(a, b mgl32.Vec3) mgl32.Mat3 {
	var m mgl32.Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			m[col*3+row] = a[row] * b[col]
		}
	}
	return m
}

type bodyNode struct {
	ecs.EntityId
	*RigidBody
	*transform.Transform
	Collider *Collider           `ecs:"optional"`
	Density  *Density            `ecs:"optional"`
	Material *Material           `ecs:"optional"`
	Children *transform.Children `ecs:"optional"`
	Mass     *MassProperties     `ecs:"optional"`
	Linear   *LinearVelocity     `ecs:"optional"`
	Angular  *AngularVelocity    `ecs:"optional"`
	Activity *Activity           `ecs:"optional"`
}

type partNode struct {
	*Collider
	*transform.Transform
	Density *Density `ecs:"optional"`
}

// bodyParts gathers the body's own collider and those of its direct children.
func bodyParts(body bodyNode, parts *ecs.Query[partNode]) []MassPart {
	var out []MassPart
	if body.Collider != nil {
		out = append(out, MassPart{Collider: *body.Collider, Local: transform.Identity(), Density: densityOf(body.Density)})
	}
	if body.Children == nil {
		return out
	}
	for _, childId := range body.Children.Live() {
		child := parts.Get(childId)
		if child == nil {
			continue
		}
		local := *child.Transform
		local.Scale = mgl32.Vec3{1, 1, 1}
		out = append(out, MassPart{Collider: *child.Collider, Local: local, Density: densityOf(child.Density)})
	}
	return out
}

func densityOf(d *Density) float32 {
	if d == nil {
		return 1
	}
	return float32(*d)
}

// MassSystem keeps MassProperties of dynamic bodies current and gives every
// dynamic body the velocity and activity components the solver needs.
type MassSystem struct {
	Bodies ecs.Query[bodyNode]
	Parts  ecs.Query[partNode]
}

func (s *MassSystem) Execute(frame *ecs.UpdateFrame) {
	for _, body := range s.Bodies.Iter() {
		if body.RigidBody.Kind == Static {
			continue
		}

		if body.Linear == nil {
			frame.Commands.AddComponent(body.EntityId, LinearVelocity{})
		}
		if body.Angular == nil {
			frame.Commands.AddComponent(body.EntityId, AngularVelocity{})
		}
		if body.Activity == nil {
			frame.Commands.AddComponent(body.EntityId, Activity{})
		}

		if body.RigidBody.Kind != Dynamic {
			continue
		}

		props := ComputeMassProperties(bodyParts(body, &s.Parts))
		if props.Mass <= 0 {
			// A dynamic body needs mass; fall back to a unit point mass.
			props = MassProperties{Mass: 1, InvMass: 1, Inertia: mgl32.Ident3(), InvInertia: mgl32.Ident3()}
		}

		if body.Mass != nil {
			*body.Mass = props
		} else {
			frame.Commands.AddComponent(body.EntityId, props)
		}
	}
}
