package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/ecs"
	"github.com/plus3/cubedrop/physics"
	"github.com/plus3/cubedrop/transform"
)

// FormatVec prints v with three decimals.
func FormatVec(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X(), v.Y(), v.Z())
}

// Pose is a snapshot of the parent cube used by the binaries' reports.
type Pose struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Linear      mgl32.Vec3
	Angular     mgl32.Vec3
	Sleeping    bool
}

func (p Pose) String() string {
	state := "awake"
	if p.Sleeping {
		state = "asleep"
	}
	return fmt.Sprintf("at %s rot (%.3f, %s) v %s w %s %s",
		FormatVec(p.Translation), p.Rotation.W, FormatVec(p.Rotation.V),
		FormatVec(p.Linear), FormatVec(p.Angular), state)
}

type poseView struct {
	*ParentCube
	*transform.Transform
	Linear   *physics.LinearVelocity  `ecs:"optional"`
	Angular  *physics.AngularVelocity `ecs:"optional"`
	Activity *physics.Activity        `ecs:"optional"`
}

// ReadPose returns the pose of the first ParentCube in storage.
func ReadPose(storage *ecs.Storage) (Pose, bool) {
	for _, cube := range ecs.NewView[poseView](storage).Iter() {
		pose := Pose{
			Translation: cube.Translation,
			Rotation:    cube.Rotation,
		}
		if cube.Linear != nil {
			pose.Linear = cube.Linear.Vec3
		}
		if cube.Angular != nil {
			pose.Angular = cube.Angular.Vec3
		}
		if cube.Activity != nil {
			pose.Sleeping = cube.Activity.Sleeping
		}
		return pose, true
	}
	return Pose{}, false
}
