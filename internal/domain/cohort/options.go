package cohort

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSize sets the number of subjects in the cohort.
func WithSize(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.size = n
		}
	}
}

// WithSeed fixes the random source for reproducible cohorts.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithRates sets the exponential rates for the event of interest, the
// competing event, and censoring. Non-positive rates disable that cause.
func WithRates(event, competing, censor float64) Option {
	return func(g *Generator) {
		g.eventRate = event
		g.competingRate = competing
		g.censorRate = censor
	}
}

// WithWeightJitter sets the half-width of the case-weight band around 1.0.
// Zero produces unit weights.
func WithWeightJitter(jitter float64) Option {
	return func(g *Generator) {
		if jitter >= 0 && jitter < 1 {
			g.weightJitter = jitter
		}
	}
}

// WithTiePrecision rounds observed times to this many decimals so distinct
// subjects share event times. Negative disables rounding.
func WithTiePrecision(decimals int) Option {
	return func(g *Generator) {
		g.tiePrecision = decimals
	}
}

// WithWorkers sets the number of generation goroutines.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}
