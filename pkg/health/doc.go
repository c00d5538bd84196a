/*
Package health provides reusable readiness probes (HTTP, TCP, exec).
A unit's own ExecStart command may poll one and call
capability.Registry.Set only once it reports healthy, or an operator
surface outside the core (cmd/sessiond's "serve" subcommand) may poll
one to answer its own /healthz endpoint. Neither use is built into
pkg/launcher itself: the gate a CAPABILITY-type unit blocks on is
always the registry SET, never a Checker directly.

A Checker is anything that can report a Result from Check(ctx). The
three concrete checkers — HTTPChecker, TCPChecker, ExecChecker — share
that interface so a unit's exec_start routine can poll one in a loop:

	checker := health.NewHTTPChecker("http://localhost:8080/health")
	for {
		if res := checker.Check(ctx); res.Healthy {
			registry.Set("backend-ready", struct{}{})
			break
		}
		time.Sleep(time.Second)
	}

Status tracks consecutive successes/failures across repeated checks so
callers can apply a Retries threshold before flipping state, matching
the flapping-avoidance behaviour widely used for liveness probes.
*/
package health
