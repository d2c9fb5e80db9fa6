package navigation

import "sync"

type progressValue struct {
	done  float64
	total float64
}

// progressAggregator. keeps the last reported value per sub-route search, the visible progress is the
// sum of those values, so repeated reports of one search replace each other instead of adding up.
type progressAggregator struct {
	mu         sync.Mutex
	generation uint64
	last       map[int]progressValue
	done       float64
	total      float64
}

func newProgressAggregator() *progressAggregator {
	return &progressAggregator{last: make(map[int]progressValue)}
}

func (pa *progressAggregator) reset(generation uint64) {
	pa.mu.Lock()
	defer pa.mu.Unlock()
	pa.generation = generation
	pa.last = make(map[int]progressValue)
	pa.done = 0
	pa.total = 0
}

// report. ok=false for reports of a superseded generation
func (pa *progressAggregator) report(generation uint64, task int, done, total float64) (float64, float64, bool) {
	pa.mu.Lock()
	defer pa.mu.Unlock()
	if generation != pa.generation {
		return 0, 0, false
	}
	prev := pa.last[task]
	pa.done += done - prev.done
	pa.total += total - prev.total
	pa.last[task] = progressValue{done: done, total: total}
	return pa.done, pa.total, true
}

func (pa *progressAggregator) get() (float64, float64) {
	pa.mu.Lock()
	defer pa.mu.Unlock()
	return pa.done, pa.total
}
