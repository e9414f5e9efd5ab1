package gravity_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravfield/internal/gravity"
)

var _ = Describe("point mass field", func() {
	var src gravity.Point3D
	const mass = 1e7

	BeforeEach(func() {
		src = gravity.Point3D{X: 0, Y: 0, Z: -10}
	})

	Describe("potential", func() {
		It("is negative for any r > 0", func() {
			for _, obs := range []gravity.Point3D{
				{X: 1}, {Y: -100, Z: 100}, {X: 0.001, Z: -10}, {X: 1e6, Y: 1e6, Z: 1e6},
			} {
				u, err := gravity.Potential(obs, src, mass)
				Expect(err).NotTo(HaveOccurred())
				Expect(u).To(BeNumerically("<", 0))
			}
		})

		It("approaches zero with distance", func() {
			prev := math.Inf(-1)
			for _, r := range []float64{10, 1e2, 1e4, 1e8, 1e12} {
				u, err := gravity.Potential(gravity.Point3D{X: r, Z: -10}, src, mass)
				Expect(err).NotTo(HaveOccurred())
				Expect(u).To(BeNumerically(">", prev))
				prev = u
			}
			Expect(prev).To(BeNumerically("~", 0, 1e-15))
		})

		It("depends only on distance from the source", func() {
			ref, err := gravity.Potential(gravity.Point3D{X: 30, Y: 0, Z: -10}, src, mass)
			Expect(err).NotTo(HaveOccurred())

			for _, angle := range []float64{0.3, 1.1, math.Pi / 2, 2.9, 4.4} {
				obs := gravity.Point3D{
					X: 30 * math.Cos(angle) * math.Sin(angle+0.5),
					Y: 30 * math.Sin(angle) * math.Sin(angle+0.5),
					Z: -10 + 30*math.Cos(angle+0.5),
				}
				u, err := gravity.Potential(obs, src, mass)
				Expect(err).NotTo(HaveOccurred())
				Expect(u).To(BeNumerically("~", ref, math.Abs(ref)*1e-12))
			}
		})
	})

	Describe("vertical effect", func() {
		It("has the sign of obs.Z - src.Z", func() {
			for _, z := range []float64{-200, -50, -10.5, -9.5, 0, 10, 100} {
				gz, err := gravity.VerticalEffect(gravity.Point3D{X: 7, Y: -3, Z: z}, src, mass)
				Expect(err).NotTo(HaveOccurred())
				Expect(math.Signbit(gz)).To(Equal(z-src.Z < 0))
			}
		})
	})

	Describe("scaling laws", func() {
		obs := gravity.Point3D{X: 12, Y: -9, Z: 5}

		It("is linear in mass", func() {
			u1, _ := gravity.Potential(obs, src, mass)
			u2, _ := gravity.Potential(obs, src, 2*mass)
			g1, _ := gravity.VerticalEffect(obs, src, mass)
			g2, _ := gravity.VerticalEffect(obs, src, 2*mass)

			Expect(u2).To(BeNumerically("~", 2*u1, math.Abs(u1)*1e-12))
			Expect(g2).To(BeNumerically("~", 2*g1, math.Abs(g1)*1e-12))
		})

		It("follows 1/r for potential and 1/r^2 for vertical effect", func() {
			d := obs.Sub(src)
			for _, k := range []float64{0.5, 2, 3, 10} {
				scaled := gravity.Point3D{X: src.X + k*d.X, Y: src.Y + k*d.Y, Z: src.Z + k*d.Z}

				u1, _ := gravity.Potential(obs, src, mass)
				uk, _ := gravity.Potential(scaled, src, mass)
				g1, _ := gravity.VerticalEffect(obs, src, mass)
				gk, _ := gravity.VerticalEffect(scaled, src, mass)

				Expect(uk).To(BeNumerically("~", u1/k, math.Abs(u1)*1e-12))
				Expect(gk).To(BeNumerically("~", g1/(k*k), math.Abs(g1)*1e-12))
			}
		})
	})

	Describe("singular evaluation", func() {
		It("fails loudly instead of returning Inf or NaN", func() {
			u, err := gravity.Potential(src, src, mass)
			Expect(errors.Is(err, gravity.ErrSingularPoint)).To(BeTrue())
			Expect(u).To(BeZero())

			gz, err := gravity.VerticalEffect(src, src, mass)
			Expect(err).To(MatchError(gravity.ErrSingularPoint))
			Expect(gz).To(BeZero())
		})
	})
})
