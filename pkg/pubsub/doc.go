/*
Package pubsub implements a broadcast queue: one writer, any number of
independent readers, each seeing every value published after it
subscribed, in publication order.

The design is a singly-linked chain of nodes. Each node starts unset;
Publish fills the current tail node with a value and a reference to a
freshly allocated next node, then advances the queue's notion of
"tail" to that next node. Close marks the tail node as the end of the
stream instead. A View is a cursor holding a reference to a node; its
Next method blocks until that node is no longer unset, yields the
value (or ErrEndReached), and advances the cursor to the node's
successor.

Because a view only ever holds a reference to the node it hasn't yet
consumed, a node becomes unreachable — and collectible — the instant
every view has advanced past it. The queue itself holds only the
current tail. No subscriber list, explicit reclamation pass, or
reference count is needed; Go's garbage collector does the work the
original design called for by hand.

The queue's mutex serializes the tail advance in Publish, so calls
from several goroutines each fill their own node and every view sees
them in the order they took the lock.
Publishing into an already-set node, or publishing after Close, is a
programmer error and panics — the same contract Go's own channels
enforce for send-on-closed.
*/
package pubsub
