package ecs

import (
	"fmt"

	"github.com/milk9111/portalworks/ecs/component"
)

// CreateEntity is the functional form of World.CreateEntity.
func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

// DestroyEntity is the functional form of World.DestroyEntity.
func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

// IsAlive is the functional form of World.IsAlive.
func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count)
	w.entities.each(func(e Entity) { out = append(out, e) })
	return out
}

// Add stores value on e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if w == nil || !w.IsAlive(e) {
		return fmt.Errorf("add %s to %v: %w", handle.Kind(), e, component.ErrEntityNotAlive)
	}
	if !handle.Kind().Valid() {
		return fmt.Errorf("add to %v: %w", e, component.ErrInvalidComponentKind)
	}
	w.store(handle.ID(), true).Set(e, &value)
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil {
		return false
	}
	return w.store(handle.ID(), false).Remove(e)
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	return w.store(handle.ID(), false).Has(e)
}

// Get returns a copy of the component value stored on e.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	ptr, ok := GetPtr(w, e, handle)
	if !ok {
		return zero, false
	}
	return *ptr, true
}

// GetPtr returns the stored component so callers can mutate it in place. The
// pointer is invalidated by a later Add of the same kind on the same entity.
func GetPtr[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if w == nil || !w.IsAlive(e) {
		return nil, false
	}
	value := w.store(handle.ID(), false).Get(e)
	if value == nil {
		return nil, false
	}
	ptr, ok := value.(*T)
	return ptr, ok
}

// ForEach calls fn for every live entity holding the component. The callback
// receives the stored value and may mutate it. Entities created or destroyed
// by fn do not affect the current iteration.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(Entity, *T)) {
	for _, e := range w.Query(handle) {
		if ptr, ok := GetPtr(w, e, handle); ok {
			fn(e, ptr)
		}
	}
}

// ForEach2 calls fn for every live entity holding both components.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ha, hb) {
		a, okA := GetPtr(w, e, ha)
		b, okB := GetPtr(w, e, hb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}
