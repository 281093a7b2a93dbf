package ecs_test

import (
	"testing"

	"github.com/plus3/cubedrop/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQueryRequiresExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	assert.Panics(t, func() {
		for range query.Iter() {
		}
	})
}

func TestQuerySeesNewArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	storage.Spawn(Position{X: 1})
	query.Execute()
	assert.Equal(t, 1, query.Len())

	storage.Spawn(Position{X: 2}, Velocity{})
	storage.Spawn(Velocity{})
	query.Execute()
	assert.Equal(t, 2, query.Len())

	total := float32(0)
	for item := range query.Values() {
		total += item.Position.X
	}
	assert.Equal(t, float32(3), total)
}

func TestQuerySingle(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct {
		ecs.EntityId
		*Marker
		*Position
	}](storage)

	query.Execute()
	_, _, ok := query.Single()
	assert.False(t, ok)

	id := storage.Spawn(Marker{}, Position{Y: 6})
	storage.Spawn(Position{})
	query.Execute()

	got, item, ok := query.Single()
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, id, item.EntityId)
	assert.Equal(t, float32(6), item.Position.Y)

	storage.Spawn(Marker{}, Position{})
	query.Execute()
	_, _, ok = query.Single()
	assert.False(t, ok)
}
