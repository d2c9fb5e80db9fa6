package navigation

import (
	"sort"
	"sync"

	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
)

// RouteListener. RouteChanged gets the combined route of all destinations
type RouteListener interface {
	RouteChanged(r *route.Route)
	NoRouteFound()
}

// ProgressListener. done / total summed over all sub-route searches of the current destinations
type ProgressListener interface {
	ProgressChanged(done, total float64, current *da.Node)
}

// RoutingStepListener. step of the current route nearest to the last fix
type RoutingStepListener interface {
	RoutingStepChanged(step *route.RoutingStep)
}

// listenerSet. listeners are called in registration order, outside of any manager lock
type listenerSet[T any] struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]T
}

func newListenerSet[T any]() *listenerSet[T] {
	return &listenerSet[T]{listeners: make(map[uint64]T)}
}

func (ls *listenerSet[T]) add(l T) func() {
	ls.mu.Lock()
	id := ls.nextID
	ls.nextID++
	ls.listeners[id] = l
	ls.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			ls.mu.Lock()
			delete(ls.listeners, id)
			ls.mu.Unlock()
		})
	}
}

func (ls *listenerSet[T]) snapshot() []T {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	ids := make([]uint64, 0, len(ls.listeners))
	for id := range ls.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, ls.listeners[id])
	}
	return out
}

func (ls *listenerSet[T]) forEach(fn func(l T)) {
	for _, l := range ls.snapshot() {
		fn(l)
	}
}
