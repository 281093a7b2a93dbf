package ecs

import "reflect"

// maxFlushRounds bounds how many times callbacks may queue further commands
// during a single Flush.
const maxFlushRounds = 64

// Commands provides a buffer for deferred ECS operations that are executed at the end of a stage.
// This prevents structural changes to the ECS storage during system execution.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
	then       func(storage *Storage, id EntityId)
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// SpawnThen queues a spawn and calls then with the new entity's id once it
// exists. Commands queued from then are applied within the same Flush.
func (c *Commands) SpawnThen(then func(storage *Storage, id EntityId), components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components, then: then})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Empty reports whether no commands are queued.
func (c *Commands) Empty() bool {
	return len(c.spawns) == 0 && len(c.deletes) == 0 && len(c.adds) == 0 &&
		len(c.removes) == 0 && len(c.defers) == 0
}

// Flush applies all queued commands to storage in the order deletes, removes,
// adds, spawns, defers. Several commands may target the same entity: ids are
// followed across the archetype moves earlier commands cause.
func (c *Commands) Flush(storage *Storage) {
	for round := 0; !c.Empty(); round++ {
		if round == maxFlushRounds {
			panic("ecs: commands still pending after maximum flush rounds")
		}
		batch := *c
		*c = Commands{}
		batch.apply(storage)
	}
}

func (c *Commands) apply(storage *Storage) {
	deleted := make(map[EntityId]bool, len(c.deletes))
	// latest maps the id a command was queued with to where that entity lives now.
	latest := make(map[EntityId]EntityId)

	current := func(queued EntityId) EntityId {
		if id, ok := latest[queued]; ok {
			return id
		}
		return queued
	}

	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = true
	}

	for _, cmd := range c.removes {
		if deleted[cmd.entity] {
			continue
		}
		latest[cmd.entity] = storage.RemoveComponent(current(cmd.entity), cmd.compType)
	}

	for _, cmd := range c.adds {
		if deleted[cmd.entity] {
			continue
		}
		latest[cmd.entity] = storage.AddComponent(current(cmd.entity), cmd.component)
	}

	for _, cmd := range c.spawns {
		id := storage.Spawn(cmd.components...)
		if cmd.then != nil {
			cmd.then(storage, id)
		}
	}

	for _, fn := range c.defers {
		fn()
	}
}
