package bridge

// EntityID identifies a game entity on the host side.
type EntityID int

// bindings maintains the many-to-one relation between entities and objects.
// It is the only writer of both directions of the relation: the reverse map
// here and the ordered entity list on each object, kept consistent
// together.
type bindings struct {
	byEntity map[EntityID]Handle
}

func newBindings() *bindings {
	return &bindings{byEntity: make(map[EntityID]Handle)}
}

// assign adds entity to obj's set and returns the new set size. An entity
// already on obj is a no-op; an entity bound to another object is moved
// there silently.
func (b *bindings) assign(r *registry, obj *object, entity EntityID) int {
	if prev, ok := b.byEntity[entity]; ok {
		if prev == obj.handle {
			return len(obj.entities)
		}
		if old, err := r.get(prev); err == nil {
			old.entities = removeEntity(old.entities, entity)
		}
	}
	obj.entities = append(obj.entities, entity)
	b.byEntity[entity] = obj.handle
	return len(obj.entities)
}

// remove drops the association if present and returns the remaining set
// size. Removing an entity that is not bound to obj is a no-op.
func (b *bindings) remove(obj *object, entity EntityID) int {
	if h, ok := b.byEntity[entity]; ok && h == obj.handle {
		obj.entities = removeEntity(obj.entities, entity)
		delete(b.byEntity, entity)
	}
	return len(obj.entities)
}

// dropAll cascades object deletion over every binding it holds.
func (b *bindings) dropAll(obj *object) {
	for _, e := range obj.entities {
		delete(b.byEntity, e)
	}
	obj.entities = nil
}

// find is the reverse lookup.
func (b *bindings) find(entity EntityID) (Handle, bool) {
	h, ok := b.byEntity[entity]
	return h, ok
}

func removeEntity(list []EntityID, entity EntityID) []EntityID {
	for i, e := range list {
		if e == entity {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
