package nbody

// Direct-sum gravitational simulation
// Each step computes all n(n-1)/2 pair forces split across goroutines,
// then advances bodies with semi-implicit Euler, also split across goroutines

import (
	"math"
	"math/rand"
	"sync"
)

const (
	G         = 6.67430e-11
	softening = 1e-10 // added to r^2
	SolarMass = 1.989e30
)

type Body struct {
	Mass     float64
	Position Vector
	Velocity Vector
}

type Galaxy struct {
	Bodies   []Body
	Strategy Strategy
}

func NewGalaxy(bodies []Body) *Galaxy {
	return &Galaxy{Bodies: bodies}
}

// NewRandomGalaxy a star at the origin and n-1 bodies on circular orbits.
// The same seed gives the same galaxy.
func NewRandomGalaxy(n int, seed int64) *Galaxy {
	if n <= 0 {
		return &Galaxy{}
	}
	bodies := make([]Body, 0, n)
	bodies = append(bodies, Body{Mass: SolarMass})
	bodies = appendOrbiting(bodies, n, rand.New(rand.NewSource(seed)))
	return &Galaxy{Bodies: bodies}
}

// SolarSystem the Sun and the eight planets, lined up on the x axis with
// their mean orbital speeds
func SolarSystem() []Body {
	return []Body{
		{Mass: SolarMass},                                                          // Sun
		{Mass: 3.30e23, Position: Vector{5.79e10, 0}, Velocity: Vector{0, 47400}},  // Mercury
		{Mass: 4.87e24, Position: Vector{1.082e11, 0}, Velocity: Vector{0, 35000}}, // Venus
		{Mass: 5.97e24, Position: Vector{1.496e11, 0}, Velocity: Vector{0, 29780}}, // Earth
		{Mass: 6.42e23, Position: Vector{2.279e11, 0}, Velocity: Vector{0, 24070}}, // Mars
		{Mass: 1.90e27, Position: Vector{7.785e11, 0}, Velocity: Vector{0, 13070}}, // Jupiter
		{Mass: 5.68e26, Position: Vector{1.433e12, 0}, Velocity: Vector{0, 9690}},  // Saturn
		{Mass: 8.68e25, Position: Vector{2.877e12, 0}, Velocity: Vector{0, 6810}},  // Uranus
		{Mass: 1.02e26, Position: Vector{4.503e12, 0}, Velocity: Vector{0, 5430}},  // Neptune
	}
}

// NewSolarGalaxy the first n bodies of SolarSystem, padded with random
// orbiting bodies when n is larger
func NewSolarGalaxy(n int, seed int64) *Galaxy {
	if n <= 0 {
		return &Galaxy{}
	}
	solar := SolarSystem()
	if n <= len(solar) {
		return &Galaxy{Bodies: solar[:n]}
	}
	bodies := make([]Body, 0, n)
	bodies = append(bodies, solar...)
	bodies = appendOrbiting(bodies, n, rand.New(rand.NewSource(seed)))
	return &Galaxy{Bodies: bodies}
}

// appendOrbiting adds bodies on circular orbits around a solar mass at the
// origin until there are n
func appendOrbiting(bodies []Body, n int, rng *rand.Rand) []Body {
	for len(bodies) < n {
		radius := 5e10 + rng.Float64()*4.5e12 // Mercury to Neptune
		angle := rng.Float64() * 2 * math.Pi
		mass := 1e23 + rng.Float64()*2e27

		pos := Vector{radius * math.Cos(angle), radius * math.Sin(angle)}
		speed := math.Sqrt(G * SolarMass / radius)
		vel := Vector{-math.Sin(angle), math.Cos(angle)}.Scale(speed)

		bodies = append(bodies, Body{Mass: mass, Position: pos, Velocity: vel})
	}
	return bodies
}

// PairCount n(n-1)/2
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// PairIndex maps a flat pair index k in [0, PairCount(n)) to (i, j) with i < j,
// enumerating (0,1), (0,2) .. (0,n-1), (1,2) ..
func PairIndex(k, n int) (int, int) {
	i := 0
	for k >= n-i-1 {
		k -= n - i - 1
		i++
	}
	return i, i + 1 + k
}

// Simulate advances the galaxy by dt using the given number of goroutines.
// threads < 1 runs on one goroutine.
func (g *Galaxy) Simulate(dt float64, threads int) {
	n := len(g.Bodies)
	pairs := PairCount(n)
	if pairs == 0 {
		return
	}
	if threads < 1 {
		threads = 1
	}
	if threads > pairs {
		threads = pairs
	}

	var forces []Vector
	switch g.Strategy {
	case StrategyPairBuffer:
		forces = g.pairBufferForces(threads)
	default:
		forces = g.perThreadForces(threads)
	}
	g.update(forces, dt, threads)
}

// pairBufferForces stores every pair force, then sums them into per-goroutine
// body buffers in a second parallel pass
func (g *Galaxy) pairBufferForces(threads int) []Vector {
	n := len(g.Bodies)
	pairs := PairCount(n)
	pairForces := make([]Vector, pairs)

	parallelRanges(pairs, threads, func(_, start, end int) {
		g.computePairForces(start, end, pairForces)
	})

	partial := make([][]Vector, threads)
	parallelRanges(pairs, threads, func(t, start, end int) {
		local := make([]Vector, n)
		if start < end {
			i, j := PairIndex(start, n)
			for k := start; k < end; k++ {
				local[i] = local[i].Add(pairForces[k])
				local[j] = local[j].Sub(pairForces[k])
				j++
				if j == n {
					i++
					j = i + 1
				}
			}
		}
		partial[t] = local
	})

	return sumPartials(partial, n)
}

// perThreadForces accumulates body forces directly into per-goroutine buffers
func (g *Galaxy) perThreadForces(threads int) []Vector {
	n := len(g.Bodies)
	partial := make([][]Vector, threads)

	parallelRanges(PairCount(n), threads, func(t, start, end int) {
		local := make([]Vector, n)
		g.accumulateForces(start, end, local)
		partial[t] = local
	})

	return sumPartials(partial, n)
}

// update applies semi-implicit Euler, bodies split across goroutines
func (g *Galaxy) update(forces []Vector, dt float64, threads int) {
	step := func(_, start, end int) {
		for i := start; i < end; i++ {
			b := &g.Bodies[i]
			acceleration := forces[i].Div(b.Mass)
			b.Velocity = b.Velocity.Add(acceleration.Scale(dt))
			b.Position = b.Position.Add(b.Velocity.Scale(dt))
		}
	}

	n := len(g.Bodies)
	if threads <= 1 {
		step(0, 0, n)
		return
	}
	parallelRanges(n, min(threads, n), step)
}

// parallelRanges splits [0, total) into threads contiguous ranges and runs
// fn(t, start, end) for each on its own goroutine
func parallelRanges(total, threads int, fn func(t, start, end int)) {
	per := (total + threads - 1) / threads

	var wg sync.WaitGroup
	for t := 0; t < threads; t++ {
		start := min(t*per, total)
		end := min(start+per, total)

		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(t, start, end)
		}()
	}
	wg.Wait()
}

func sumPartials(partial [][]Vector, n int) []Vector {
	total := make([]Vector, n)
	for i := range total {
		for _, forces := range partial {
			total[i] = total[i].Add(forces[i])
		}
	}
	return total
}

// pairForce force on body i from body j
func (g *Galaxy) pairForce(i, j int) Vector {
	bi, bj := &g.Bodies[i], &g.Bodies[j]
	direction := bj.Position.Sub(bi.Position)
	distance2 := direction.Norm2() + softening
	magnitude := G * bi.Mass * bj.Mass / distance2
	return direction.Normalized().Scale(magnitude)
}

// computePairForces writes the force of pair k into out[k] for k in [start, end)
func (g *Galaxy) computePairForces(start, end int, out []Vector) {
	n := len(g.Bodies)
	if start >= end {
		return
	}
	i, j := PairIndex(start, n)
	for k := start; k < end; k++ {
		out[k] = g.pairForce(i, j)
		j++
		if j == n {
			i++
			j = i + 1
		}
	}
}

// accumulateForces adds the forces of pairs [start, end) into forces
func (g *Galaxy) accumulateForces(start, end int, forces []Vector) {
	n := len(g.Bodies)
	if start >= end {
		return
	}
	i, j := PairIndex(start, n)
	for k := start; k < end; k++ {
		force := g.pairForce(i, j)

		forces[i] = forces[i].Add(force)
		forces[j] = forces[j].Sub(force)

		j++
		if j == n {
			i++
			j = i + 1
		}
	}
}

// Momentum total linear momentum
func (g *Galaxy) Momentum() Vector {
	var p Vector
	for _, b := range g.Bodies {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

// Clone deep copy, for running the same start state with different thread counts
func (g *Galaxy) Clone() *Galaxy {
	bodies := make([]Body, len(g.Bodies))
	copy(bodies, g.Bodies)
	return &Galaxy{Bodies: bodies, Strategy: g.Strategy}
}
