/*
Package events adapts a pubsub.Queue into plain Go channels for
consumers that want select ergonomics instead of pulling values one at
a time from a pubsub.View.

A Bridge subscribes to a source queue once and broadcasts every value
to all of its own subscribers, dropping on a per-subscriber buffer
overrun rather than slowing down the broadcast loop:

	bridge := events.NewBridge(ctx, supervisor.Events())
	feed := bridge.Subscribe()
	defer bridge.Unsubscribe(feed)
	for ev := range feed {
		fmt.Println(ev)
	}
*/
package events
