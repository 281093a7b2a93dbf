package transform

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/ecs"
)

// Parent points a child entity at the entity whose space it lives in.
type Parent struct {
	Ref *ecs.EntityRef
}

// Children lists the entities parented to this one, in spawn order.
type Children struct {
	Refs []*ecs.EntityRef
}

// Live returns the ids of children that still exist.
func (c *Children) Live() []ecs.EntityId {
	ids := make([]ecs.EntityId, 0, len(c.Refs))
	for _, ref := range c.Refs {
		if ref.Valid() {
			ids = append(ids, ref.Id)
		}
	}
	return ids
}

// WithChildren queues the spawn of parent and then of each child bundle.
// Every child receives a Parent pointing back, and the parent receives a
// Children component listing them. then, if non-nil, is called with the
// parent's ref once all children exist.
func WithChildren(cmds *ecs.Commands, then func(parent *ecs.EntityRef), parent []any, children ...[]any) {
	parentComponents := append(parent[:len(parent):len(parent)], Children{Refs: make([]*ecs.EntityRef, 0, len(children))})

	cmds.SpawnThen(func(storage *ecs.Storage, parentId ecs.EntityId) {
		parentRef := storage.CreateEntityRef(parentId)
		pending := len(children)
		if pending == 0 && then != nil {
			then(parentRef)
		}

		for _, bundle := range children {
			childComponents := append(bundle[:len(bundle):len(bundle)], Parent{Ref: parentRef})
			cmds.SpawnThen(func(storage *ecs.Storage, childId ecs.EntityId) {
				if list := ecs.ReadComponent[Children](storage, parentRef.Id); list != nil {
					list.Refs = append(list.Refs, storage.CreateEntityRef(childId))
				}
				pending--
				if pending == 0 && then != nil {
					then(parentRef)
				}
			}, childComponents...)
		}
	}, parentComponents...)
}

type hierarchyNode struct {
	ecs.EntityId
	*Transform
	Global *GlobalTransform `ecs:"optional"`
	Parent *Parent          `ecs:"optional"`
}

// PropagateSystem computes GlobalTransform for every entity with a Transform.
// Roots get their local matrix and children get parentGlobal * local at any
// depth. The hierarchy is read from Parent components. A child whose parent no
// longer exists is treated as a root. Entities without a GlobalTransform get
// one inserted.
type PropagateSystem struct {
	Nodes ecs.Query[hierarchyNode]
}

func (s *PropagateSystem) Execute(frame *ecs.UpdateFrame) {
	var roots []hierarchyNode
	kids := make(map[ecs.EntityId][]hierarchyNode)

	for _, node := range s.Nodes.Iter() {
		if parentId, ok := s.liveParent(node); ok {
			kids[parentId] = append(kids[parentId], node)
			continue
		}
		roots = append(roots, node)
	}

	visited := make(map[ecs.EntityId]bool, s.Nodes.Len())
	for _, root := range roots {
		s.propagate(frame, root, mgl32.Ident4(), kids, visited)
	}
}

func (s *PropagateSystem) liveParent(node hierarchyNode) (ecs.EntityId, bool) {
	if node.Parent == nil || !node.Parent.Ref.Valid() {
		return 0, false
	}
	parentId := node.Parent.Ref.Id
	if parentId == node.EntityId || s.Nodes.Get(parentId) == nil {
		return 0, false
	}
	return parentId, true
}

func (s *PropagateSystem) propagate(frame *ecs.UpdateFrame, node hierarchyNode, parentWorld mgl32.Mat4, kids map[ecs.EntityId][]hierarchyNode, visited map[ecs.EntityId]bool) {
	if visited[node.EntityId] {
		return
	}
	visited[node.EntityId] = true

	world := parentWorld.Mul4(node.Transform.Matrix())
	if node.Global != nil {
		node.Global.Matrix = world
	} else {
		frame.Commands.AddComponent(node.EntityId, GlobalTransform{Matrix: world})
	}

	for _, child := range kids[node.EntityId] {
		s.propagate(frame, child, world, kids, visited)
	}
}

// Install registers the hierarchy components and PropagateSystem in the
// PostUpdate stage.
func Install(scheduler *ecs.Scheduler) {
	registry := scheduler.Storage().Registry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[GlobalTransform](registry)
	ecs.RegisterComponent[Parent](registry)
	ecs.RegisterComponent[Children](registry)
	scheduler.RegisterIn(ecs.PostUpdate, &PropagateSystem{})
}
