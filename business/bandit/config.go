package bandit

import "time"

type Config struct {
	// Seed for the Beta sampling source. Zero means seed from the clock.
	Seed int64
}

func DefaultConfig() Config {
	return Config{}
}

// NewSamplerFromConfig builds the sampler used for posterior draws.
func NewSamplerFromConfig(cfg Config) *Sampler {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewSampler(NewLockedSource(seed))
}
