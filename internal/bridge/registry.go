package bridge

import "physbridge/internal/engine"

// Handle identifies a live physics object. Handles are small non-negative
// integers, unique for the lifetime of the process: a deleted handle is
// never reissued, so stale references always fail instead of aliasing a
// newer object.
type Handle int

// InvalidHandle is the sentinel returned by handle-producing calls on
// failure.
const InvalidHandle Handle = -1

// object is one registry slot: the engine body plus bridge-side bookkeeping.
type object struct {
	handle    Handle
	body      engine.Body
	kinematic bool

	// entities bound to this object, in assignment order. The first entry
	// is authoritative for kinematic sync.
	entities []EntityID

	// condemned marks an object whose deletion was requested from inside
	// a contact callback and is deferred to the end of the drain.
	condemned bool
}

// registry owns the arena of object slots. A slot index is the handle;
// freed slots keep a nil tombstone so lookups on deleted handles fail
// deterministically.
type registry struct {
	slots  []*object
	byBody map[engine.Body]Handle
}

func newRegistry() *registry {
	return &registry{byBody: make(map[engine.Body]Handle)}
}

func (r *registry) add(body engine.Body) *object {
	obj := &object{handle: Handle(len(r.slots)), body: body}
	r.slots = append(r.slots, obj)
	r.byBody[body] = obj.handle
	return obj
}

// get resolves a handle to its live object.
func (r *registry) get(h Handle) (*object, error) {
	if h < 0 || int(h) >= len(r.slots) || r.slots[h] == nil {
		return nil, ErrUnknownHandle
	}
	return r.slots[h], nil
}

// remove tombstones the slot. The caller releases the engine body and the
// bindings.
func (r *registry) remove(h Handle) (*object, error) {
	obj, err := r.get(h)
	if err != nil {
		return nil, err
	}
	delete(r.byBody, obj.body)
	r.slots[h] = nil
	return obj, nil
}

// lookup maps an engine body back to its handle, for contact reports.
func (r *registry) lookup(body engine.Body) (Handle, bool) {
	h, ok := r.byBody[body]
	return h, ok
}

// live calls fn for every live object.
func (r *registry) live(fn func(*object)) {
	for _, obj := range r.slots {
		if obj != nil {
			fn(obj)
		}
	}
}
