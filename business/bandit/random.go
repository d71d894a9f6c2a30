package bandit

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// Source is a uniform random source on [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded, non-thread-safe uniform source.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedSource returns a seeded source that is safe for concurrent use.
func NewLockedSource(seed int64) Source {
	return &lockedSource{rnd: rand.New(rand.NewSource(seed))}
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Float64()
}

// Sampler draws Gamma and Beta variates from primitive uniform draws.
// It is not safe for concurrent use unless its Source is.
type Sampler struct {
	src Source
}

func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// uniform returns a draw in (0, 1); exact zeros are rejected so log(u) stays finite.
func (s *Sampler) uniform() float64 {
	for {
		if u := s.src.Float64(); u > 0 {
			return u
		}
	}
}

// StdNormal uses the Box-Muller transform.
func (s *Sampler) StdNormal() float64 {
	u := s.uniform()
	v := s.uniform()
	return math.Sqrt(-2.0*math.Log(u)) * math.Cos(2*math.Pi*v)
}

// Gamma draws from Gamma(shape, 1). shape must be > 0.
//
// shape >= 1 uses Marsaglia-Tsang. shape < 1 draws Gamma(1+shape) once and
// scales it by u^(1/shape).
func (s *Sampler) Gamma(shape float64) float64 {
	if !(shape > 0) {
		panic(fmt.Sprintf("bandit: gamma shape must be > 0, got %v", shape))
	}
	if shape < 1 {
		g := s.marsagliaTsang(1 + shape)
		u := s.uniform()
		return g * math.Pow(u, 1/shape)
	}
	return s.marsagliaTsang(shape)
}

func (s *Sampler) marsagliaTsang(k float64) float64 {
	d := k - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = s.StdNormal()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := s.uniform()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// Beta draws from Beta(a, b) as x/(x+y) with independent x ~ Gamma(a), y ~ Gamma(b).
func (s *Sampler) Beta(a, b float64) float64 {
	if !(a > 0) || !(b > 0) {
		panic(fmt.Sprintf("bandit: beta parameters must be > 0, got a=%v b=%v", a, b))
	}
	x := s.Gamma(a)
	y := s.Gamma(b)
	return x / (x + y)
}
