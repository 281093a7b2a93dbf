package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// velocityAt is the world velocity of the body's material point at offset r
// from its center of mass.
func (b *simBody) velocityAt(r mgl32.Vec3) mgl32.Vec3 {
	return b.linear.Add(b.angular.Cross(r))
}

func (b *simBody) applyImpulse(impulse, r mgl32.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.linear = b.linear.Add(impulse.Mul(b.invMass))
	b.angular = b.angular.Add(b.invInertia.Mul3x1(r.Cross(impulse)))
}

// effectiveMass returns 1 / (J M^-1 J^T) for an impulse along dir at the contact.
func effectiveMass(c *contact, dir mgl32.Vec3) float32 {
	k := c.a.invMass + c.b.invMass
	rnA := c.rA.Cross(dir)
	rnB := c.rB.Cross(dir)
	k += c.a.invInertia.Mul3x1(rnA).Cross(c.rA).Dot(dir)
	k += c.b.invInertia.Mul3x1(rnB).Cross(c.rB).Dot(dir)
	if k <= 0 {
		return 0
	}
	return 1 / k
}

func perpendicular(n mgl32.Vec3) mgl32.Vec3 {
	if math32.Abs(n.X()) < 0.57 {
		return n.Cross(mgl32.Vec3{1, 0, 0}).Normalize()
	}
	return n.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// prepare computes the per-step constants of a contact: lever arms, friction
// directions, effective masses and the velocity bias.
func (c *contact) prepare(settings *Settings, dt float32) {
	c.rA = c.point.Sub(c.a.com)
	c.rB = c.point.Sub(c.b.com)

	relative := c.a.velocityAt(c.rA).Sub(c.b.velocityAt(c.rB))
	normalSpeed := relative.Dot(c.normal)

	slide := relative.Sub(c.normal.Mul(normalSpeed))
	if slide.Dot(slide) > 1e-8 {
		c.tangents[0] = slide.Normalize()
	} else {
		c.tangents[0] = perpendicular(c.normal)
	}
	c.tangents[1] = c.normal.Cross(c.tangents[0])

	c.normalMass = effectiveMass(c, c.normal)
	c.tangentMass[0] = effectiveMass(c, c.tangents[0])
	c.tangentMass[1] = effectiveMass(c, c.tangents[1])

	c.friction = (c.a.material.Friction + c.b.material.Friction) / 2
	restitution := (c.a.material.Restitution + c.b.material.Restitution) / 2

	if c.depth < 0 {
		// Speculative: allow closing the remaining gap within this step.
		c.bias = c.depth / dt
	} else {
		c.bias = settings.Baumgarte / dt * max(c.depth-settings.Slop, 0)
	}
	if restitution > 0 && normalSpeed < -settings.RestitutionThreshold && normalSpeed*dt <= c.depth {
		c.bias = max(c.bias, -restitution*normalSpeed)
	}
}

// solve applies one sequential impulse iteration: friction first, bounded by
// the current normal impulse, then the non-penetration constraint.
func (c *contact) solve() {
	for i, tangent := range c.tangents {
		if c.tangentMass[i] == 0 {
			continue
		}
		relative := c.a.velocityAt(c.rA).Sub(c.b.velocityAt(c.rB))
		delta := -relative.Dot(tangent) * c.tangentMass[i]

		limit := c.friction * c.normalImpulse
		previous := c.tangentImpulse[i]
		c.tangentImpulse[i] = mgl32.Clamp(previous+delta, -limit, limit)
		delta = c.tangentImpulse[i] - previous

		impulse := tangent.Mul(delta)
		c.a.applyImpulse(impulse, c.rA)
		c.b.applyImpulse(impulse.Mul(-1), c.rB)
	}

	if c.normalMass == 0 {
		return
	}
	relative := c.a.velocityAt(c.rA).Sub(c.b.velocityAt(c.rB))
	delta := (c.bias - relative.Dot(c.normal)) * c.normalMass

	previous := c.normalImpulse
	c.normalImpulse = max(previous+delta, 0)
	delta = c.normalImpulse - previous

	impulse := c.normal.Mul(delta)
	c.a.applyImpulse(impulse, c.rA)
	c.b.applyImpulse(impulse.Mul(-1), c.rB)
}
