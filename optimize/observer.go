package optimize

// Observation is a progress snapshot, pushed to an Observer callback at
// the same cadence original_source logs to stdout (every iteration on
// improvement, every 1000 SA iterations / 10 GA generations otherwise).
type Observation struct {
	Iteration   int
	Total       int
	BestFitness float64
	BestBins    int
	Temperature float64 // SA only; 0 for GA
	CacheHits   int
	CacheMisses int
}

// Observer receives Observations during a run. A nil Observer disables
// progress reporting; the search itself is unaffected either way.
type Observer func(Observation)

func (o Observer) notify(obs Observation) {
	if o != nil {
		o(obs)
	}
}
