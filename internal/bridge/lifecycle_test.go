package bridge_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"physbridge/internal/bridge"
	"physbridge/internal/engine"
	"physbridge/internal/shape"
)

// The full life of one object: created from a descriptor, configured,
// bound to an entity, stepped, and deleted.
var _ = Describe("object lifecycle", func() {
	var (
		host *fakeHost
		b    *bridge.Bridge
	)

	BeforeEach(func() {
		host = newFakeHost()
		b = bridge.New(engine.NewWorld(mgl64.Vec3{0, -9.81, 0}), nil, host)
	})

	It("runs a body from creation to deletion", func() {
		ground, err := b.Create("box/20/0.5/20", 0)
		Expect(err).NotTo(HaveOccurred())

		ball, err := b.Create("sphere/0.5", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(ball).NotTo(Equal(ground))

		_, err = b.Invoke(ball, bridge.SetWorldTransform{Transform: engine.Transform{
			Position: mgl64.Vec3{0, 5, 0},
			Rotation: mgl64.QuatIdent(),
		}})
		Expect(err).NotTo(HaveOccurred())

		var touched bool
		b.OnContact(func(a, c bridge.Handle, distance float64) {
			touched = true
			Expect(distance).To(BeNumerically("<", 0))
		})

		// A ball dropped from five units reaches the ground well inside
		// two simulated seconds.
		for i := 0; i < 120 && !touched; i++ {
			b.Step(1.0 / 60.0)
		}
		Expect(touched).To(BeTrue(), "falling ball never touched the ground")

		resp, err := b.Invoke(ball, bridge.GetWorldTransform)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.(bridge.Placement).Transform.Position.Y()).To(BeNumerically("~", 1.0, 0.2))

		Expect(b.Delete(ball)).To(Succeed())
		_, err = b.Invoke(ball, bridge.GetMass)
		Expect(err).To(MatchError(bridge.ErrUnknownHandle))
	})

	It("keeps a kinematic object glued to its entity", func() {
		host.place(1, "box/1/1/1", mgl64.Vec3{0, 2, 0})

		h, err := b.Create("box/1/1/1", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.SetKinematic(h, true)).To(Succeed())

		_, err = b.Assign(h, 1)
		Expect(err).NotTo(HaveOccurred())

		for y := 3.0; y <= 5; y++ {
			host.transforms[1] = engine.Transform{Position: mgl64.Vec3{0, y, 0}, Rotation: mgl64.QuatIdent()}
			b.Step(1.0 / 60.0)

			resp, err := b.Invoke(h, bridge.GetWorldTransform)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.(bridge.Placement).Transform.Position.Y()).To(Equal(y))
		}

		// Switching back hands the body to the solver again.
		Expect(b.SetKinematic(h, false)).To(Succeed())
		resp, err := b.Invoke(h, bridge.IsKinematic)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.(bridge.Boolean).Value).To(BeFalse())
	})

	It("applies explicit shape settings per creation", func() {
		custom := shape.Settings{Variant: shape.ConvexHull, Scale: mgl64.Vec3{2, 2, 2}}

		// CreateWith must not disturb the configured default.
		b.ConfigureShape(shape.DefaultSettings())
		_, err := b.CreateWith("sphere/0.5", 1, custom)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.ShapeSettings()).To(Equal(shape.DefaultSettings()))
	})
})
