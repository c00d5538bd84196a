/*
Package launcher implements a dependency-aware supervisor for
cooperatively managed units: named, declaratively described pieces of
work that start and stop in an order derived from their declared
relationships to each other, not from the order callers happen to call
Start.

A unit is declared once via Descriptor and Supervisor.Add, then driven
by Start and Stop, which return a handle shared by every concurrent
caller asking for the same transition. The supervisor recognizes four
readiness conditions (see UnitType) for deciding when a unit counts as
started, mirrors systemd's after/before/binds_to/conflicts vocabulary
for declaring order and exclusivity between units, and maintains a
single well-known "shutdown target" unit that, when started, stops
every unit that opted into the default dependency wiring.

Supervisor is safe for concurrent use. Database is a standalone
declaration layer usable on its own for introspection or testing
without driving any lifecycle.
*/
package launcher
