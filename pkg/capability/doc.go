/*
Package capability implements a registry that maps an arbitrary
comparable key to a value, publishing a SET or DEL event on every
mutation so other components can synchronize on a key's lifecycle
instead of polling for it.

Keys are typically either a plain string (for capabilities named in a
Descriptor.CapabilityName field) or the reflect.Type obtained from
KeyOf, which gives callers compile-time-checked, typed access without
a second lookup table:

	registry.Set(capability.KeyOf[*http.Client](), client)
	c, ok := capability.Get[*http.Client](registry)

Provide is the scoped-acquisition entry point: it sets the key only if
absent and returns a Release closure that deletes it, publishing both
the SET and the eventual DEL. Calling Release after the registry's
event queue has already been closed is safe; it updates the map and
recovers from the panic pubsub.Queue.Publish raises on a closed
queue, so the DEL event is silently dropped.
*/
package capability
