package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
// Registering the same type twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.factories[t]; ok {
		return
	}
	r.factories[t] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// IsRegistered reports whether T has been registered.
func IsRegistered[T any](r *ComponentRegistry) bool {
	_, ok := r.factories[reflect.TypeFor[T]()]
	return ok
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const genericBlockSize = 64

type componentBlock[T any] struct {
	items  [genericBlockSize]T
	filled [genericBlockSize]bool
}

// genericComponentStorage stores components of type T in fixed-size blocks so
// pointers handed out by Get stay valid while the storage grows.
type genericComponentStorage[T any] struct {
	blocks    []*componentBlock[T]
	freeSlots []int
	nextIndex int
	count     int
}

func (cs *genericComponentStorage[T]) slot(index int) (*componentBlock[T], int) {
	if index < 0 {
		return nil, 0
	}
	blockIdx := index / genericBlockSize
	if blockIdx >= len(cs.blocks) {
		return nil, 0
	}
	return cs.blocks[blockIdx], index % genericBlockSize
}

// Append adds a component to storage and returns its index, or -1 if item is
// neither a T nor a *T.
func (cs *genericComponentStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
		if index/genericBlockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, &componentBlock[T]{})
		}
	}

	block, slot := cs.slot(index)
	block.items[slot] = value
	block.filled[slot] = true
	cs.count++
	return index
}

// Get returns a *T for the component at index, or nil if the slot is empty.
func (cs *genericComponentStorage[T]) Get(index int) any {
	block, slot := cs.slot(index)
	if block == nil || !block.filled[slot] {
		return nil
	}
	return &block.items[slot]
}

// Delete marks a component slot as empty and zeroes it.
func (cs *genericComponentStorage[T]) Delete(index int) {
	block, slot := cs.slot(index)
	if block == nil || !block.filled[slot] {
		return
	}
	var zero T
	block.items[slot] = zero
	block.filled[slot] = false
	cs.freeSlots = append(cs.freeSlots, index)
	cs.count--
}

// Has checks if a component exists at the given index.
func (cs *genericComponentStorage[T]) Has(index int) bool {
	block, slot := cs.slot(index)
	return block != nil && block.filled[slot]
}

// Len returns the number of live components.
func (cs *genericComponentStorage[T]) Len() int {
	return cs.count
}

// Compact moves live components to the front and returns the old->new index mapping.
func (cs *genericComponentStorage[T]) Compact() map[int]int {
	indexMap := make(map[int]int, cs.count)
	if cs.count == 0 {
		cs.blocks = cs.blocks[:0]
		cs.freeSlots = nil
		cs.nextIndex = 0
		return indexMap
	}

	numBlocks := (cs.count + genericBlockSize - 1) / genericBlockSize
	blocks := make([]*componentBlock[T], numBlocks)
	for i := range blocks {
		blocks[i] = &componentBlock[T]{}
	}

	writePos := 0
	for readIdx := range cs.Iter() {
		block, slot := cs.slot(readIdx)
		dst := blocks[writePos/genericBlockSize]
		dst.items[writePos%genericBlockSize] = block.items[slot]
		dst.filled[writePos%genericBlockSize] = true
		indexMap[readIdx] = writePos
		writePos++
	}

	cs.blocks = blocks
	cs.freeSlots = nil
	cs.nextIndex = writePos
	return indexMap
}

// Iter yields the indices of all filled slots in ascending order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			block, slot := cs.slot(i)
			if block == nil || !block.filled[slot] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
