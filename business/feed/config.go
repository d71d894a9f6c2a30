package feed

import "time"

type Config struct {
	// SeenCap bounds the per-user seen set.
	SeenCap int

	MaxPages      int
	PageSizeFloor int
	PageCeiling   int

	DiversifyCategories  int
	DiversifyPerCategory int
	DiversifyLimit       int

	FocusedTarget       int
	SwipeTarget         int
	FallbackPerCategory int

	DefaultCountry string

	// FetchTimeout bounds a single upstream page fetch.
	FetchTimeout time.Duration
}

const (
	defaultSeenCap              = 200
	defaultMaxPages             = 10
	defaultPageSizeFloor        = 10
	defaultPageCeiling          = 50
	defaultDiversifyCategories  = 3
	defaultDiversifyPerCategory = 4
	defaultDiversifyLimit       = 10
	defaultFocusedTarget        = 10
	defaultSwipeTarget          = 5
	defaultFallbackPerCategory  = 4
	defaultCountry              = "us"
	defaultFetchTimeout         = 10 * time.Second
)

func DefaultConfig() Config {
	return Config{
		SeenCap:              defaultSeenCap,
		MaxPages:             defaultMaxPages,
		PageSizeFloor:        defaultPageSizeFloor,
		PageCeiling:          defaultPageCeiling,
		DiversifyCategories:  defaultDiversifyCategories,
		DiversifyPerCategory: defaultDiversifyPerCategory,
		DiversifyLimit:       defaultDiversifyLimit,
		FocusedTarget:        defaultFocusedTarget,
		SwipeTarget:          defaultSwipeTarget,
		FallbackPerCategory:  defaultFallbackPerCategory,
		DefaultCountry:       defaultCountry,
		FetchTimeout:         defaultFetchTimeout,
	}
}

// withDefaults fills zero or negative fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SeenCap <= 0 {
		c.SeenCap = d.SeenCap
	}
	if c.MaxPages <= 0 {
		c.MaxPages = d.MaxPages
	}
	if c.PageSizeFloor <= 0 {
		c.PageSizeFloor = d.PageSizeFloor
	}
	if c.PageCeiling <= 0 {
		c.PageCeiling = d.PageCeiling
	}
	if c.DiversifyCategories <= 0 {
		c.DiversifyCategories = d.DiversifyCategories
	}
	if c.DiversifyPerCategory <= 0 {
		c.DiversifyPerCategory = d.DiversifyPerCategory
	}
	if c.DiversifyLimit <= 0 {
		c.DiversifyLimit = d.DiversifyLimit
	}
	if c.FocusedTarget <= 0 {
		c.FocusedTarget = d.FocusedTarget
	}
	if c.SwipeTarget <= 0 {
		c.SwipeTarget = d.SwipeTarget
	}
	if c.FallbackPerCategory <= 0 {
		c.FallbackPerCategory = d.FallbackPerCategory
	}
	if c.DefaultCountry == "" {
		c.DefaultCountry = d.DefaultCountry
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	return c
}

// WorstCasePull is how long a single-category pull may take: MaxPages
// sequential fetches plus the parallel fallback round, each capped by
// FetchTimeout.
func (c Config) WorstCasePull() time.Duration {
	c = c.withDefaults()
	return time.Duration(c.MaxPages+1) * c.FetchTimeout
}
