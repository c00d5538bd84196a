/*
Package supervisorrpc exposes a launcher.Supervisor over gRPC for an
external consumer (a CLI, a future GUI, an operator tool) that wants to
drive units from outside the process that owns them.

It is a one-way adapter: supervisorrpc imports launcher, never the
other way around, so pkg/launcher stays free of any network-protocol
concern, matching spec.md's Non-goal for the core itself while still
giving the teacher's gRPC stack a real home.

Because no protoc run is available in this environment, the service is
hand-registered against a grpc.ServiceDesc the way protoc-gen-go-grpc
would emit one, and wire messages are plain JSON-tagged structs carried
by a small encoding.Codec registered under the "json" subtype rather
than generated .pb.go types. Where a value naturally maps to a
well-known protobuf type — a timestamp, a duration — this package uses
the pre-built types from google.golang.org/protobuf/types/known
directly, which ship with the module and need no generation step.
*/
package supervisorrpc
