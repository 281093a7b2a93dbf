package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/cubedrop/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdParts(t *testing.T) {
	id := ecs.NewEntityId(0xabcd, 7)
	assert.Equal(t, uint32(0xabcd), id.ArchetypeId())
	assert.Equal(t, uint32(7), id.Index())
	assert.Equal(t, "0000abcd:7", id.String())
}

func TestEntityRefFollowsArchetypeMoves(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	ref := storage.CreateEntityRef(id)
	require.NotNil(t, ref)
	assert.Same(t, ref, storage.CreateEntityRef(id))

	moved := storage.AddComponent(id, Velocity{})
	assert.NotEqual(t, id, moved)
	resolved, ok := storage.ResolveEntityRef(ref)
	assert.True(t, ok)
	assert.Equal(t, moved, resolved)

	moved = storage.RemoveComponent(moved, reflect.TypeFor[Velocity]())
	resolved, ok = storage.ResolveEntityRef(ref)
	assert.True(t, ok)
	assert.Equal(t, moved, resolved)
	assert.Equal(t, float32(1), ecs.ReadComponent[Position](storage, resolved).X)
}

func TestEntityRefInvalidatedOnDelete(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	storage.Delete(id)

	assert.False(t, ref.Valid())
	_, ok := storage.ResolveEntityRef(ref)
	assert.False(t, ok)
}

func TestEntityRefMissingEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.Nil(t, storage.CreateEntityRef(ecs.NewEntityId(1, 1)))

	var ref *ecs.EntityRef
	assert.False(t, ref.Valid())
	_, ok := storage.ResolveEntityRef(nil)
	assert.False(t, ok)
}

func TestInvalidateEntityRef(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	assert.True(t, storage.InvalidateEntityRef(ref))
	assert.False(t, ref.Valid())
	assert.True(t, storage.Exists(id))
	assert.False(t, storage.InvalidateEntityRef(ref))
}
