// Package bridge connects a game's entity world to a rigid-body simulation:
// object lifecycle behind opaque handles, entity binding with kinematic
// sync, a generic operation dispatcher, raycasts and per-tick contact
// delivery. The solver itself sits behind the engine port; asset parsing
// behind the shape source port.
package bridge

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"physbridge/internal/engine"
	"physbridge/internal/shape"
)

// Default sub-stepping policy until ConfigureStep changes it.
const (
	DefaultMaxSubSteps   = 4
	DefaultFixedTimeStep = 1.0 / 60.0
)

// ContactSink receives one call per touching pair per tick, after the step
// completes. Distance is negative when the pair penetrates.
type ContactSink func(a, b Handle, distance float64)

type queuedContact struct {
	a, b     Handle
	distance float64
}

// Bridge is the host-facing facade. It is single-threaded by contract:
// every method runs on the host's simulation thread.
type Bridge struct {
	engine   engine.Engine
	resolver shape.Resolver
	host     Host

	settings shape.Settings
	objects  *registry
	bindings *bindings

	maxSubSteps   int
	fixedTimeStep float64

	sink  ContactSink
	queue []queuedContact
	seen  map[[2]Handle]bool

	// draining is set while contacts are forwarded; deletions requested
	// from inside the sink are deferred until the drain finishes.
	draining  bool
	condemned []Handle
}

// New wires a bridge to its collaborators. assets may be nil when only
// primitive descriptors are used; host may be nil when no entity binding is
// needed.
func New(eng engine.Engine, assets shape.Source, host Host) *Bridge {
	b := &Bridge{
		engine:        eng,
		resolver:      shape.Resolver{Assets: assets},
		host:          host,
		settings:      shape.DefaultSettings(),
		objects:       newRegistry(),
		bindings:      newBindings(),
		maxSubSteps:   DefaultMaxSubSteps,
		fixedTimeStep: DefaultFixedTimeStep,
		seen:          make(map[[2]Handle]bool),
	}
	eng.OnContact(b.enqueue)
	return b
}

// ConfigureShape replaces the mesh-shape generation settings used by every
// subsequent creation until the next call.
func (b *Bridge) ConfigureShape(s shape.Settings) {
	b.settings = s
}

// ShapeSettings returns the settings currently in effect.
func (b *Bridge) ShapeSettings() shape.Settings { return b.settings }

// Create builds a physics object from a model descriptor under the current
// shape settings. Mass zero creates a static object.
func (b *Bridge) Create(descriptor string, mass float64) (Handle, error) {
	return b.create(descriptor, mass, b.settings, engine.IdentityTransform())
}

// CreateWith is Create with an explicit shape configuration, independent of
// any prior ConfigureShape call.
func (b *Bridge) CreateWith(descriptor string, mass float64, cfg shape.Settings) (Handle, error) {
	return b.create(descriptor, mass, cfg, engine.IdentityTransform())
}

// CreateFromEntity reads the entity's model, origin and orientation from
// the host and creates a static object there.
func (b *Bridge) CreateFromEntity(entity EntityID) (Handle, error) {
	if b.host == nil {
		return InvalidHandle, ErrNoHost
	}
	model, ok := b.host.EntityModel(entity)
	if !ok {
		return InvalidHandle, fmt.Errorf("%w: %d", ErrEntityNotFound, entity)
	}
	transform, ok := b.host.EntityTransform(entity)
	if !ok {
		return InvalidHandle, fmt.Errorf("%w: %d", ErrEntityNotFound, entity)
	}
	return b.create(model, 0, b.settings, transform)
}

func (b *Bridge) create(descriptor string, mass float64, cfg shape.Settings, at engine.Transform) (Handle, error) {
	if mass < 0 {
		return InvalidHandle, fmt.Errorf("%w: negative mass %v", ErrArgumentMismatch, mass)
	}
	s, err := b.resolver.Resolve(descriptor, cfg)
	if err != nil {
		return InvalidHandle, err
	}
	body, err := b.engine.CreateBody(s, mass, at)
	if err != nil {
		return InvalidHandle, fmt.Errorf("%w: %v", ErrEngineAllocation, err)
	}
	return b.objects.add(body).handle, nil
}

// Delete removes the object, cascades its entity bindings and releases the
// engine body. Deleting an already-deleted handle fails with
// ErrUnknownHandle. Inside a contact sink the deletion is deferred to the
// end of the drain.
func (b *Bridge) Delete(h Handle) error {
	obj, err := b.objects.get(h)
	if err != nil {
		return err
	}
	if obj.condemned {
		return ErrUnknownHandle
	}
	if b.draining {
		obj.condemned = true
		b.condemned = append(b.condemned, h)
		return nil
	}
	b.destroy(h)
	return nil
}

func (b *Bridge) destroy(h Handle) {
	obj, err := b.objects.remove(h)
	if err != nil {
		return
	}
	b.bindings.dropAll(obj)
	b.engine.RemoveBody(obj.body)
}

// SetMass reclassifies the object in place. Crossing zero flips the static
// state on the engine side.
func (b *Bridge) SetMass(h Handle, mass float64) error {
	obj, err := b.objects.get(h)
	if err != nil {
		return err
	}
	if mass < 0 {
		return fmt.Errorf("%w: negative mass %v", ErrArgumentMismatch, mass)
	}
	obj.body.SetMass(mass)
	return nil
}

// SetKinematic switches the object between solver-driven and entity-driven
// motion.
func (b *Bridge) SetKinematic(h Handle, kinematic bool) error {
	obj, err := b.objects.get(h)
	if err != nil {
		return err
	}
	obj.kinematic = kinematic
	obj.body.SetKinematic(kinematic)
	return nil
}

// SyncToEntity forces the object's transform to its first bound entity's
// current transform immediately, outside the per-tick sync.
func (b *Bridge) SyncToEntity(h Handle) error {
	obj, err := b.objects.get(h)
	if err != nil {
		return err
	}
	if len(obj.entities) == 0 {
		return ErrNoBoundEntity
	}
	if b.host == nil {
		return ErrNoHost
	}
	t, ok := b.host.EntityTransform(obj.entities[0])
	if !ok {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, obj.entities[0])
	}
	obj.body.SetWorldTransform(t)
	return nil
}

// Assign binds an entity to the object and returns the new binding count.
// An entity bound elsewhere is moved here silently.
func (b *Bridge) Assign(h Handle, entity EntityID) (int, error) {
	obj, err := b.objects.get(h)
	if err != nil {
		return 0, err
	}
	return b.bindings.assign(b.objects, obj, entity), nil
}

// RemoveEntity drops the binding if present and returns the remaining
// count. Removing an unbound entity is a no-op, not an error.
func (b *Bridge) RemoveEntity(h Handle, entity EntityID) (int, error) {
	obj, err := b.objects.get(h)
	if err != nil {
		return 0, err
	}
	return b.bindings.remove(obj, entity), nil
}

// Entities returns a snapshot of the object's bound entities in assignment
// order.
func (b *Bridge) Entities(h Handle) ([]EntityID, error) {
	obj, err := b.objects.get(h)
	if err != nil {
		return nil, err
	}
	out := make([]EntityID, len(obj.entities))
	copy(out, obj.entities)
	return out, nil
}

// FindObject is the reverse lookup from entity to object.
func (b *Bridge) FindObject(entity EntityID) (Handle, bool) {
	return b.bindings.find(entity)
}

// ConfigureStep sets the solver sub-stepping policy. Invalid parameters are
// rejected and the previous configuration stays in effect.
func (b *Bridge) ConfigureStep(maxSubSteps int, fixedTimeStep float64) error {
	if maxSubSteps < 1 || fixedTimeStep <= 0 {
		return fmt.Errorf("%w: maxSubSteps=%d fixedTimeStep=%v", ErrInvalidStepConfig, maxSubSteps, fixedTimeStep)
	}
	b.maxSubSteps = maxSubSteps
	b.fixedTimeStep = fixedTimeStep
	return nil
}

// OnContact registers the sink that receives contact reports after each
// tick. A nil sink discards them.
func (b *Bridge) OnContact(sink ContactSink) {
	b.sink = sink
}

// Raycast finds the nearest object along the segment from start to end.
func (b *Bridge) Raycast(start, end mgl64.Vec3) (Handle, mgl64.Vec3, mgl64.Vec3, bool) {
	hit, ok := b.engine.RayTest(start, end)
	if !ok {
		return InvalidHandle, mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	h, ok := b.objects.lookup(hit.Body)
	if !ok {
		return InvalidHandle, mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return h, hit.Point, hit.Normal, true
}

// Step advances the simulation by one host tick: kinematic objects are
// synced to their first bound entity, the engine steps under the configured
// sub-stepping policy, and contacts discovered in the step are forwarded in
// discovery order, once per pair, before Step returns.
func (b *Bridge) Step(dt float64) int {
	b.syncKinematics()

	b.queue = b.queue[:0]
	clear(b.seen)
	steps := b.engine.StepSimulation(dt, b.maxSubSteps, b.fixedTimeStep)

	b.drainContacts()
	return steps
}

func (b *Bridge) syncKinematics() {
	if b.host == nil {
		return
	}
	b.objects.live(func(obj *object) {
		if !obj.kinematic || len(obj.entities) == 0 {
			return
		}
		// The first-assigned entity is authoritative.
		if t, ok := b.host.EntityTransform(obj.entities[0]); ok {
			obj.body.SetWorldTransform(t)
		}
	})
}

// enqueue is the engine contact callback. Contacts are buffered and only
// forwarded after the step finishes, so sink code never runs mid-step. A
// pair is recorded once per tick even when sub-steps rediscover it.
func (b *Bridge) enqueue(c engine.Contact) {
	ha, okA := b.objects.lookup(c.A)
	hb, okB := b.objects.lookup(c.B)
	if !okA || !okB {
		return
	}
	key := [2]Handle{ha, hb}
	if key[0] > key[1] {
		key[0], key[1] = key[1], key[0]
	}
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.queue = append(b.queue, queuedContact{a: ha, b: hb, distance: c.Distance})
}

func (b *Bridge) drainContacts() {
	if b.sink != nil {
		b.draining = true
		for _, c := range b.queue {
			b.sink(c.a, c.b, c.distance)
		}
		b.draining = false
	}
	for _, h := range b.condemned {
		b.destroy(h)
	}
	b.condemned = b.condemned[:0]
}
