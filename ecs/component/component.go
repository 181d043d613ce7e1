package component

import (
	"errors"
	"reflect"
	"sync"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

// Kind is the type-erased identity of a component kind, used by queries that
// mix several component types.
type Kind interface {
	ID() ComponentID
}

// ComponentKind identifies one registered component type. The zero value is
// invalid and is rejected by ecs.Add.
type ComponentKind[T any] struct {
	id ComponentID
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }
func (k ComponentKind[T]) Valid() bool     { return k.id != 0 }
func (k ComponentKind[T]) String() string  { return KindName(k.id) }

// ComponentHandle is what packages declare once per component type:
//
//	var PortalComponent = NewComponent[Portal]()
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

// NewComponent registers a new kind for T. Registering the same T twice
// yields two independent kinds.
func NewComponent[T any]() ComponentHandle[T] {
	name := reflect.TypeFor[T]().String()
	kinds.Lock()
	kinds.names = append(kinds.names, name)
	id := ComponentID(len(kinds.names))
	kinds.Unlock()
	return ComponentHandle[T]{kind: ComponentKind[T]{id: id}}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }
func (h ComponentHandle[T]) ID() ComponentID        { return h.kind.id }

// KindName returns the Go type name a kind was registered for.
func KindName(id ComponentID) string {
	kinds.RLock()
	defer kinds.RUnlock()
	if id == 0 || int(id) > len(kinds.names) {
		return "invalid"
	}
	return kinds.names[id-1]
}

var kinds struct {
	sync.RWMutex
	names []string
}
