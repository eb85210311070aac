package bridge

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"physbridge/internal/engine"
)

// Request is one dispatchable operation against a physics object. The set
// is closed: mutators are individual structs carrying typed arguments,
// argument-less queries share the Query enum. Dispatch is an exhaustive
// switch in Bridge.Invoke; operation names only exist at the edge, mapped
// once by ParseRequest.
type Request interface {
	request()
}

// Mutators.
type (
	// ApplyCentralForce accumulates a force through the center of mass.
	ApplyCentralForce struct{ Force mgl64.Vec3 }
	// ApplyForce accumulates a force at a point relative to the center.
	ApplyForce struct{ Force, Rel mgl64.Vec3 }
	// ApplyCentralImpulse changes linear velocity instantaneously.
	ApplyCentralImpulse struct{ Impulse mgl64.Vec3 }
	// ApplyImpulse applies an impulse at a point relative to the center.
	ApplyImpulse struct{ Impulse, Rel mgl64.Vec3 }
	// ApplyTorque accumulates a torque.
	ApplyTorque struct{ Torque mgl64.Vec3 }

	SetLinearVelocity  struct{ Velocity mgl64.Vec3 }
	SetAngularVelocity struct{ Velocity mgl64.Vec3 }
	SetLinearFactor    struct{ Factor mgl64.Vec3 }
	SetAngularFactor   struct{ Factor mgl64.Vec3 }

	SetDamping            struct{ Linear, Angular float64 }
	SetFriction           struct{ Friction float64 }
	SetRestitution        struct{ Restitution float64 }
	SetSleepingThresholds struct{ Linear, Angular float64 }
	SetActivationState    struct{ Active bool }
	SetCollisionFlags     struct{ Flags int }
	SetGravity            struct{ Gravity mgl64.Vec3 }
	SetWorldTransform     struct{ Transform engine.Transform }
	ClearForces           struct{}
)

// Query enumerates the argument-less read operations.
type Query uint8

const (
	GetLinearVelocity Query = iota
	GetAngularVelocity
	GetLinearFactor
	GetAngularFactor
	GetDamping
	GetFriction
	GetRestitution
	GetSleepingThresholds
	GetActivationState
	GetCollisionFlags
	GetWorldTransform
	GetGravity
	GetMass
	GetInvMass
	GetTotalForce
	GetTotalTorque
	IsActive
	IsKinematic
	IsStatic
)

func (ApplyCentralForce) request()     {}
func (ApplyForce) request()            {}
func (ApplyCentralImpulse) request()   {}
func (ApplyImpulse) request()          {}
func (ApplyTorque) request()           {}
func (SetLinearVelocity) request()     {}
func (SetAngularVelocity) request()    {}
func (SetLinearFactor) request()       {}
func (SetAngularFactor) request()      {}
func (SetDamping) request()            {}
func (SetFriction) request()           {}
func (SetRestitution) request()        {}
func (SetSleepingThresholds) request() {}
func (SetActivationState) request()    {}
func (SetCollisionFlags) request()     {}
func (SetGravity) request()            {}
func (SetWorldTransform) request()     {}
func (ClearForces) request()           {}
func (Query) request()                 {}

// Response carries an operation's result. Mutators return Ack; each query
// returns the payload type its value calls for. Responses are only produced
// on success.
type Response interface {
	response()
}

type (
	Ack     struct{}
	Scalar  struct{ Value float64 }
	Pair    struct{ A, B float64 }
	Vector  struct{ Value mgl64.Vec3 }
	Boolean struct{ Value bool }
	// Placement is a full world transform: position plus rotation.
	Placement struct{ Transform engine.Transform }
)

func (Ack) response()       {}
func (Scalar) response()    {}
func (Pair) response()      {}
func (Vector) response()    {}
func (Boolean) response()   {}
func (Placement) response() {}

// opSpec validates raw arguments and builds the typed request. arities
// lists the accepted argument counts.
type opSpec struct {
	arities []int
	build   func(args []float64) Request
}

func vec(a []float64) mgl64.Vec3 { return mgl64.Vec3{a[0], a[1], a[2]} }

// operations is the edge table: operation name to argument shape. Rotations
// travel as quaternion components x/y/z/w. Adding an operation means one
// entry here, one variant above, one case in the dispatch switch.
var operations = map[string]opSpec{
	"applyCentralForce": {arities: []int{3}, build: func(a []float64) Request {
		return ApplyCentralForce{Force: vec(a)}
	}},
	"applyForce": {arities: []int{3, 6}, build: func(a []float64) Request {
		if len(a) == 3 {
			return ApplyCentralForce{Force: vec(a)}
		}
		return ApplyForce{Force: vec(a), Rel: vec(a[3:])}
	}},
	"applyCentralImpulse": {arities: []int{3}, build: func(a []float64) Request {
		return ApplyCentralImpulse{Impulse: vec(a)}
	}},
	"applyImpulse": {arities: []int{3, 6}, build: func(a []float64) Request {
		if len(a) == 3 {
			return ApplyCentralImpulse{Impulse: vec(a)}
		}
		return ApplyImpulse{Impulse: vec(a), Rel: vec(a[3:])}
	}},
	"applyTorque": {arities: []int{3}, build: func(a []float64) Request {
		return ApplyTorque{Torque: vec(a)}
	}},
	"setLinearVelocity": {arities: []int{3}, build: func(a []float64) Request {
		return SetLinearVelocity{Velocity: vec(a)}
	}},
	"setAngularVelocity": {arities: []int{3}, build: func(a []float64) Request {
		return SetAngularVelocity{Velocity: vec(a)}
	}},
	"setLinearFactor": {arities: []int{3}, build: func(a []float64) Request {
		return SetLinearFactor{Factor: vec(a)}
	}},
	"setAngularFactor": {arities: []int{3}, build: func(a []float64) Request {
		return SetAngularFactor{Factor: vec(a)}
	}},
	"setDamping": {arities: []int{2}, build: func(a []float64) Request {
		return SetDamping{Linear: a[0], Angular: a[1]}
	}},
	"setFriction": {arities: []int{1}, build: func(a []float64) Request {
		return SetFriction{Friction: a[0]}
	}},
	"setRestitution": {arities: []int{1}, build: func(a []float64) Request {
		return SetRestitution{Restitution: a[0]}
	}},
	"setSleepingThresholds": {arities: []int{2}, build: func(a []float64) Request {
		return SetSleepingThresholds{Linear: a[0], Angular: a[1]}
	}},
	"setActivationState": {arities: []int{1}, build: func(a []float64) Request {
		return SetActivationState{Active: a[0] != 0}
	}},
	"setCollisionFlags": {arities: []int{1}, build: func(a []float64) Request {
		return SetCollisionFlags{Flags: int(a[0])}
	}},
	"setGravity": {arities: []int{3}, build: func(a []float64) Request {
		return SetGravity{Gravity: vec(a)}
	}},
	"setWorldTransform": {arities: []int{7}, build: func(a []float64) Request {
		return SetWorldTransform{Transform: engine.Transform{
			Position: vec(a),
			Rotation: mgl64.Quat{V: vec(a[3:]), W: a[6]},
		}}
	}},
	"clearForces": {arities: []int{0}, build: func([]float64) Request {
		return ClearForces{}
	}},

	"getLinearVelocity":     query(GetLinearVelocity),
	"getAngularVelocity":    query(GetAngularVelocity),
	"getLinearFactor":       query(GetLinearFactor),
	"getAngularFactor":      query(GetAngularFactor),
	"getDamping":            query(GetDamping),
	"getFriction":           query(GetFriction),
	"getRestitution":        query(GetRestitution),
	"getSleepingThresholds": query(GetSleepingThresholds),
	"getActivationState":    query(GetActivationState),
	"getCollisionFlags":     query(GetCollisionFlags),
	"getWorldTransform":     query(GetWorldTransform),
	"getGravity":            query(GetGravity),
	"getMass":               query(GetMass),
	"getInvMass":            query(GetInvMass),
	"getTotalForce":         query(GetTotalForce),
	"getTotalTorque":        query(GetTotalTorque),
	"isActive":              query(IsActive),
	"isKinematic":           query(IsKinematic),
	"isStatic":              query(IsStatic),
}

func query(q Query) opSpec {
	return opSpec{arities: []int{0}, build: func([]float64) Request { return q }}
}

// ParseRequest maps an operation name and its raw arguments to the typed
// request, failing with ErrUnknownOperation or ErrArgumentMismatch. This is
// the only place operation strings are interpreted.
func ParseRequest(name string, args []float64) (Request, error) {
	spec, ok := operations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	for _, n := range spec.arities {
		if len(args) == n {
			return spec.build(args), nil
		}
	}
	return nil, fmt.Errorf("%w: %q takes %v arguments, got %d", ErrArgumentMismatch, name, spec.arities, len(args))
}

// OperationNames lists every dispatchable operation, sorted.
func OperationNames() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
