// Package model contains domain models passed between layers.
package model

// Event codes for time-to-event observations.
const (
	// Censored marks a subject leaving observation without either event.
	Censored = 0
	// EventOfInterest marks the primary outcome.
	EventOfInterest = 1
	// CompetingEvent marks the alternative terminal outcome.
	CompetingEvent = 2
)

// Observation represents a single subject's follow-up record.
type Observation struct {
	SubjectID string  // unique subject identifier
	Time      float64 // observed event or censoring time
	EventCode int     // 0 censored, 1 event of interest, 2 competing event
	Weight    float64 // non-negative case weight, e.g. inverse-probability
}

// Split decomposes observations into the three aligned columns the
// estimator consumes. The slices are freshly allocated.
func Split(obs []Observation) (times []float64, eventCodes []int, weights []float64) {
	times = make([]float64, len(obs))
	eventCodes = make([]int, len(obs))
	weights = make([]float64, len(obs))
	for i, o := range obs {
		times[i] = o.Time
		eventCodes[i] = o.EventCode
		weights[i] = o.Weight
	}
	return times, eventCodes, weights
}
