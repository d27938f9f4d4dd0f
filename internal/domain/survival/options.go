package survival

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithStrictValidation rejects out-of-domain event codes and negative
// weights instead of letting them pass through arithmetically.
func WithStrictValidation() Option {
	return func(e *Estimator) {
		e.strict = true
	}
}

// WithParallelism caps the number of goroutines used for per-time
// aggregation. Values below 2 keep the estimator fully sequential; the
// cumulative scans are sequential regardless.
func WithParallelism(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.parallelism = n
		}
	}
}
