package launcher

import "sync"

// ShutdownTarget is the name of the pre-registered unit that, when
// started, stops every unit declared with default dependency wiring.
// Kept as a stable, documented constant rather than derived, so
// descriptor data referencing it by name stays valid across releases.
const ShutdownTarget = "shutdown.target"

// entry is the fully resolved, defaulted form of a Descriptor as
// stored by the database.
type entry struct {
	capabilityName      string
	defaultDependencies bool
	execStart           []Command
	execStop            []Command
	unitType            UnitType
}

// Database is the declaration layer: it stores unit descriptors and
// the four relationship indexes (after, before, binds_to, conflicts)
// derived from them. It carries no lifecycle state of its own.
//
// Database is safe for concurrent use.
type Database struct {
	mu        sync.Mutex
	entries   map[string]entry
	after     *twoWaySetIndex
	before    *twoWaySetIndex
	bindsTo   *twoWaySetIndex
	conflicts *twoWaySetIndex
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{
		entries:   make(map[string]entry),
		after:     newTwoWaySetIndex(),
		before:    newTwoWaySetIndex(),
		bindsTo:   newTwoWaySetIndex(),
		conflicts: newTwoWaySetIndex(),
	}
}

// Add registers name with the given descriptor. It fails with
// ErrNameInUse if name is already registered, or
// ErrMissingDescriptorData if ExecStart is empty.
func (d *Database) Add(name string, descriptor Descriptor) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[name]; ok {
		return ErrNameInUse
	}
	if len(descriptor.ExecStart) == 0 {
		return ErrMissingDescriptorData
	}

	unitType := Simple
	if descriptor.CapabilityName != "" {
		unitType = Capability
	}
	if descriptor.Type != nil {
		unitType = *descriptor.Type
	}

	defaultDependencies := true
	if descriptor.DefaultDependencies != nil {
		defaultDependencies = *descriptor.DefaultDependencies
	}

	before := newStringSet(descriptor.Before)
	conflicts := newStringSet(descriptor.Conflicts)
	if defaultDependencies {
		before.add(ShutdownTarget)
		conflicts.add(ShutdownTarget)
	}

	d.entries[name] = entry{
		capabilityName:      descriptor.CapabilityName,
		defaultDependencies: defaultDependencies,
		execStart:           descriptor.ExecStart,
		execStop:            descriptor.ExecStop,
		unitType:            unitType,
	}
	d.after.set(name, newStringSet(descriptor.After))
	d.before.set(name, before)
	d.bindsTo.set(name, newStringSet(descriptor.BindsTo))
	d.conflicts.set(name, conflicts)
	return nil
}

// Remove deletes name from the database, scrubbing it from every
// index. It is idempotent: removing an unknown name is a no-op.
func (d *Database) Remove(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[name]; !ok {
		return
	}
	delete(d.entries, name)
	d.after.delete(name)
	d.before.delete(name)
	d.bindsTo.delete(name)
	d.conflicts.delete(name)
}

// Contains reports whether name is registered.
func (d *Database) Contains(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.entries[name]
	return ok
}

func (d *Database) lookup(name string) (entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.entries[name]
	return e, ok
}

// afterSet returns units that must finish starting before name may
// proceed: after(name) ∪ before⁻¹(name).
func (d *Database) afterSet(name string) stringSet {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.after.get(name).union(d.before.inverseGet(name))
}

// beforeSet returns units that must finish stopping before name may
// proceed: before(name) ∪ after⁻¹(name).
func (d *Database) beforeSet(name string) stringSet {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.before.get(name).union(d.after.inverseGet(name))
}

// conflictsUnion returns conflicts(name) ∪ conflicts⁻¹(name).
func (d *Database) conflictsUnion(name string) stringSet {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.conflicts.get(name).union(d.conflicts.inverseGet(name))
}

// bindsToSet returns binds_to(name).
func (d *Database) bindsToSet(name string) stringSet {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.bindsTo.get(name).union(nil)
}

// bindsToInverse returns every unit v with name ∈ binds_to(v): the
// dependents pulled down when name stops.
func (d *Database) bindsToInverse(name string) stringSet {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.bindsTo.inverseGet(name).union(nil)
}
