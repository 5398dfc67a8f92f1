package generate_test

import (
	"errors"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/synthfield/internal/field"
	"github.com/san-kum/synthfield/internal/generate"
)

func rawOptions() field.Options {
	opts := field.DefaultOptions()
	opts.Normalize = false
	return opts
}

var _ = Describe("RandomConfig", func() {
	It("has the documented defaults", func() {
		cfg := generate.DefaultRandomConfig()
		Expect(cfg.NumAttractors).To(Equal(1))
		Expect(cfg.NumRepellers).To(Equal(0))
		Expect(cfg.SigmaRange).To(Equal(generate.Range{Min: 2, Max: 8}))
		Expect(cfg.StrengthRange).To(Equal(generate.Range{Min: 0.5, Max: 2}))
		Expect(cfg.Seed).To(Equal(uint64(42)))
		Expect(cfg.Validate()).To(Succeed())
	})

	DescribeTable("rejects malformed configurations",
		func(mutate func(*generate.RandomConfig), target error) {
			cfg := generate.DefaultRandomConfig()
			mutate(&cfg)
			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, target)).To(BeTrue(), err.Error())
		},
		Entry("negative attractors", func(c *generate.RandomConfig) { c.NumAttractors = -1 }, generate.ErrInvalidCount),
		Entry("negative repellers", func(c *generate.RandomConfig) { c.NumRepellers = -2 }, generate.ErrInvalidCount),
		Entry("inverted sigma", func(c *generate.RandomConfig) { c.SigmaRange = generate.Range{Min: 5, Max: 1} }, generate.ErrInvalidRange),
		Entry("zero sigma", func(c *generate.RandomConfig) { c.SigmaRange = generate.Range{Min: 0, Max: 1} }, field.ErrInvalidSigma),
		Entry("inverted strength", func(c *generate.RandomConfig) { c.StrengthRange = generate.Range{Min: 3, Max: 2} }, generate.ErrInvalidRange),
	)
})

var _ = Describe("DrawSources", func() {
	It("draws attractors first, then repellers, in x y z sigma strength order", func() {
		cfg := generate.RandomConfig{
			NumAttractors: 2,
			NumRepellers:  1,
			SigmaRange:    generate.Range{Min: 1, Max: 3},
			StrengthRange: generate.Range{Min: 0.5, Max: 1.5},
			Seed:          7,
		}
		sources, err := generate.DrawSources(generate.NewRand(cfg.Seed), 20, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(sources).To(HaveLen(3))

		ref := rand.New(generate.NewRand(cfg.Seed))
		uniform := func(lo, hi float64) float64 { return ref.Float64()*(hi-lo) + lo }

		kinds := []field.Kind{field.Attractor, field.Attractor, field.Repeller}
		for i, s := range sources {
			pos := s.Position()
			Expect(pos[0]).To(BeNumerically("~", uniform(-10, 10), 1e-12))
			Expect(pos[1]).To(BeNumerically("~", uniform(-10, 10), 1e-12))
			Expect(pos[2]).To(BeNumerically("~", uniform(-10, 10), 1e-12))
			Expect(s.Sigma()).To(BeNumerically("~", uniform(1, 3), 1e-12))
			Expect(s.Strength()).To(BeNumerically("~", uniform(0.5, 1.5), 1e-12))
			Expect(s.Kind()).To(Equal(kinds[i]))
		}
	})

	It("keeps positions inside [-L/2, L/2)", func() {
		cfg := generate.DefaultRandomConfig()
		cfg.NumAttractors, cfg.NumRepellers = 50, 50
		sources, err := generate.DrawSources(generate.NewRand(3), 16, cfg)
		Expect(err).NotTo(HaveOccurred())

		for _, s := range sources {
			for _, c := range s.Position() {
				Expect(c).To(BeNumerically(">=", -8))
				Expect(c).To(BeNumerically("<", 8))
			}
			Expect(s.Sigma()).To(BeNumerically(">=", 2))
			Expect(s.Sigma()).To(BeNumerically("<=", 8))
		}
	})
})

var _ = Describe("Sample", func() {
	It("uses the default config when none is given", func() {
		res, err := generate.Sample(4, 8, nil, field.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Config).To(Equal(generate.DefaultRandomConfig()))
		Expect(res.Sources).To(HaveLen(1))
	})

	It("is bit-reproducible for identical inputs", func() {
		cfg := generate.DefaultRandomConfig()
		cfg.NumAttractors, cfg.NumRepellers = 2, 2

		a, err := generate.Sample(10, 20, &cfg, field.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		b, err := generate.Sample(10, 20, &cfg, field.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Sources).To(Equal(b.Sources))
		Expect(a.Fields.Equal(b.Fields)).To(BeTrue())
	})

	It("changes with the seed", func() {
		cfg := generate.DefaultRandomConfig()
		a, _ := generate.Sample(6, 12, &cfg, rawOptions())
		cfg.Seed++
		b, _ := generate.Sample(6, 12, &cfg, rawOptions())

		Expect(a.Sources).NotTo(Equal(b.Sources))
	})

	It("produces exactly zero fields without sources", func() {
		cfg := generate.DefaultRandomConfig()
		cfg.NumAttractors = 0

		res, err := generate.Sample(5, 10, &cfg, rawOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Sources).To(BeEmpty())
		for _, f := range res.Fields.List() {
			Expect(f.Data).To(HaveEach(float32(0)))
		}
	})

	It("fails fast on invalid grid parameters", func() {
		_, err := generate.Sample(0, 10, nil, field.DefaultOptions())
		Expect(err).To(MatchError(field.ErrInvalidResolution))

		_, err = generate.Sample(4, -1, nil, field.DefaultOptions())
		Expect(err).To(MatchError(field.ErrInvalidBoxSize))
	})

	It("peaks density at the lattice cell nearest a single source", func() {
		cfg := generate.RandomConfig{
			NumAttractors: 1,
			SigmaRange:    generate.Range{Min: 2, Max: 2},
			StrengthRange: generate.Range{Min: 1, Max: 1},
			Seed:          0,
		}
		res, err := generate.Sample(8, 16, &cfg, rawOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Sources).To(HaveLen(1))

		ref := rand.New(generate.NewRand(0))
		want := [3]float64{}
		for i := range want {
			want[i] = ref.Float64()*16 - 8
		}
		src := res.Sources[0]
		for i, c := range src.Position() {
			Expect(c).To(BeNumerically("~", want[i], 1e-12))
		}
		Expect(src.Sigma()).To(Equal(2.0))
		Expect(src.Strength()).To(Equal(1.0))

		grid, err := field.NewGrid(8, 16)
		Expect(err).NotTo(HaveOccurred())
		i, j, k := res.Fields.D.ArgMax()
		pos := src.Position()
		Expect([3]int{i, j, k}).To(Equal([3]int{
			grid.Nearest(pos[0]),
			grid.Nearest(pos[1]),
			grid.Nearest(pos[2]),
		}))
	})
})

var _ = Describe("FromSources", func() {
	It("matches Sample when given the same sources", func() {
		cfg := generate.DefaultRandomConfig()
		cfg.NumRepellers = 1
		sampled, err := generate.Sample(6, 12, &cfg, field.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		replay, err := generate.FromSources(6, 12, generate.DefaultRandomConfig(), sampled.Sources, field.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(replay.Fields.Equal(sampled.Fields)).To(BeTrue())
		Expect(replay.Config.NumAttractors).To(Equal(1))
		Expect(replay.Config.NumRepellers).To(Equal(1))
	})
})
