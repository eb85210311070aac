package bridge

// Invoke dispatches one typed request against the object behind h. Unknown
// handles fail before any side effect; every request kind is handled here,
// so a Request built by ParseRequest cannot miss.
func (b *Bridge) Invoke(h Handle, req Request) (Response, error) {
	obj, err := b.objects.get(h)
	if err != nil {
		return nil, err
	}
	body := obj.body

	switch r := req.(type) {
	case ApplyCentralForce:
		body.ApplyCentralForce(r.Force)
	case ApplyForce:
		body.ApplyForce(r.Force, r.Rel)
	case ApplyCentralImpulse:
		body.ApplyCentralImpulse(r.Impulse)
	case ApplyImpulse:
		body.ApplyImpulse(r.Impulse, r.Rel)
	case ApplyTorque:
		body.ApplyTorque(r.Torque)
	case SetLinearVelocity:
		body.SetLinearVelocity(r.Velocity)
	case SetAngularVelocity:
		body.SetAngularVelocity(r.Velocity)
	case SetLinearFactor:
		body.SetLinearFactor(r.Factor)
	case SetAngularFactor:
		body.SetAngularFactor(r.Factor)
	case SetDamping:
		body.SetDamping(r.Linear, r.Angular)
	case SetFriction:
		body.SetFriction(r.Friction)
	case SetRestitution:
		body.SetRestitution(r.Restitution)
	case SetSleepingThresholds:
		body.SetSleepingThresholds(r.Linear, r.Angular)
	case SetActivationState:
		body.SetActive(r.Active)
	case SetCollisionFlags:
		body.SetCollisionFlags(r.Flags)
	case SetGravity:
		body.SetGravity(r.Gravity)
	case SetWorldTransform:
		body.SetWorldTransform(r.Transform)
	case ClearForces:
		body.ClearForces()
	case Query:
		return b.answer(obj, r)
	default:
		return nil, ErrUnknownOperation
	}
	return Ack{}, nil
}

func (b *Bridge) answer(obj *object, q Query) (Response, error) {
	body := obj.body
	switch q {
	case GetLinearVelocity:
		return Vector{Value: body.LinearVelocity()}, nil
	case GetAngularVelocity:
		return Vector{Value: body.AngularVelocity()}, nil
	case GetLinearFactor:
		return Vector{Value: body.LinearFactor()}, nil
	case GetAngularFactor:
		return Vector{Value: body.AngularFactor()}, nil
	case GetDamping:
		lin, ang := body.Damping()
		return Pair{A: lin, B: ang}, nil
	case GetFriction:
		return Scalar{Value: body.Friction()}, nil
	case GetRestitution:
		return Scalar{Value: body.Restitution()}, nil
	case GetSleepingThresholds:
		lin, ang := body.SleepingThresholds()
		return Pair{A: lin, B: ang}, nil
	case GetActivationState:
		return Boolean{Value: body.Active()}, nil
	case GetCollisionFlags:
		return Scalar{Value: float64(body.CollisionFlags())}, nil
	case GetWorldTransform:
		return Placement{Transform: body.WorldTransform()}, nil
	case GetGravity:
		return Vector{Value: body.Gravity()}, nil
	case GetMass:
		return Scalar{Value: body.Mass()}, nil
	case GetInvMass:
		return Scalar{Value: body.InvMass()}, nil
	case GetTotalForce:
		return Vector{Value: body.TotalForce()}, nil
	case GetTotalTorque:
		return Vector{Value: body.TotalTorque()}, nil
	case IsActive:
		return Boolean{Value: body.Active()}, nil
	case IsKinematic:
		return Boolean{Value: body.Kinematic()}, nil
	case IsStatic:
		return Boolean{Value: body.Static()}, nil
	default:
		return nil, ErrUnknownOperation
	}
}

// InvokeNamed is the string edge of the dispatcher: it maps the operation
// name and raw arguments once, then dispatches the typed request.
func (b *Bridge) InvokeNamed(h Handle, name string, args ...float64) (Response, error) {
	req, err := ParseRequest(name, args)
	if err != nil {
		return nil, err
	}
	return b.Invoke(h, req)
}
