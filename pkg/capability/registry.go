package capability

import (
	"reflect"
	"sync"

	"github.com/cuemby/sessiond/pkg/metrics"
	"github.com/cuemby/sessiond/pkg/pubsub"
)

// Registry is a mutex-guarded map from key to value, publishing an
// Event on the registry's event queue for every Set, Delete, and Pop.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	values map[any]any
	events *pubsub.Queue[Event]
}

// NewRegistry creates an empty registry with a fresh event queue.
func NewRegistry() *Registry {
	return &Registry{
		values: make(map[any]any),
		events: pubsub.NewQueue[Event](),
	}
}

// Events returns the registry's event queue. Close is never called by
// the registry itself; callers that own a Registry for the lifetime
// of a process are not expected to close it, but tests may.
func (r *Registry) Events() *pubsub.Queue[Event] {
	return r.events
}

// Set assigns key to value and publishes a SET event, even if key was
// already present with an equal value: callers rely on SET firing for
// synchronization, not for change detection.
func (r *Registry) Set(key, value any) {
	r.mu.Lock()
	r.values[key] = value
	r.mu.Unlock()

	r.publish(newEvent(EventSet, key))
}

// Delete removes key if present and publishes a DEL event
// unconditionally, matching Delete's idempotent, event-always-fires
// contract.
func (r *Registry) Delete(key any) {
	r.mu.Lock()
	delete(r.values, key)
	r.mu.Unlock()

	r.publish(newEvent(EventDel, key))
}

// Get returns the value stored at key, or ErrNotSet if absent.
func (r *Registry) Get(key any) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, ok := r.values[key]
	if !ok {
		return nil, ErrNotSet
	}
	return value, nil
}

// Pop removes key and returns its prior value, or ErrNotSet if it was
// absent.
func (r *Registry) Pop(key any) (any, error) {
	r.mu.Lock()
	value, ok := r.values[key]
	if ok {
		delete(r.values, key)
	}
	r.mu.Unlock()

	if !ok {
		return nil, ErrNotSet
	}
	r.publish(newEvent(EventDel, key))
	return value, nil
}

// PopOr removes key and returns its prior value, or def if key was
// absent. Unlike Pop, a missing key is not an error and no event is
// published in that case.
func (r *Registry) PopOr(key, def any) any {
	r.mu.Lock()
	value, ok := r.values[key]
	if ok {
		delete(r.values, key)
	}
	r.mu.Unlock()

	if !ok {
		return def
	}
	r.publish(newEvent(EventDel, key))
	return value
}

// Provide sets key to value only if key is currently absent, and
// returns a Release closure that deletes key. It fails with
// ErrAlreadyEnabled if key is present with a value that is not equal
// to value.
//
// Release may be called more than once; every call after the first is
// a no-op. Calling Release after the registry's event queue has been
// closed is safe: the map update still happens, the event publish is
// simply skipped.
func (r *Registry) Provide(key, value any) (release func(), err error) {
	r.mu.Lock()
	existing, ok := r.values[key]
	if ok && existing != value {
		r.mu.Unlock()
		return nil, ErrAlreadyEnabled
	}
	r.values[key] = value
	r.mu.Unlock()

	r.publish(newEvent(EventSet, key))

	var once sync.Once
	release = func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.values, key)
			r.mu.Unlock()

			r.publishSafely(newEvent(EventDel, key))
		})
	}
	return release, nil
}

// publish sends ev on the event queue and records it in the
// sessiond_capability_sets_total / sessiond_capability_deletes_total
// counters.
func (r *Registry) publish(ev Event) {
	r.events.Publish(ev)
	bumpMetric(ev.Type)
}

// publishSafely recovers from a publish-after-close panic, since
// pubsub.Queue.Publish panics rather than returning an error.
func (r *Registry) publishSafely(ev Event) {
	defer func() { _ = recover() }()
	r.events.Publish(ev)
	bumpMetric(ev.Type)
}

func bumpMetric(t EventType) {
	switch t {
	case EventSet:
		metrics.CapabilitySetsTotal.Inc()
	case EventDel:
		metrics.CapabilityDeletesTotal.Inc()
	}
}

// KeyOf returns the reflect.Type of T, for use as a typed capability
// key alongside plain string keys.
func KeyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Get retrieves a typed value at KeyOf[T](), reporting whether it was
// present.
func Get[T any](r *Registry) (T, bool) {
	var zero T
	value, err := r.Get(KeyOf[T]())
	if err != nil {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
