// Package redis connects a session to Redis pub/sub.
//
// Events are published on "<prefix>events:<namespace>:<system>:<event>" with
// a JSON array of arguments as payload (empty payload for no arguments).
// The Source pattern-subscribes to every such channel and queues the events;
// the Publisher sends them; the Mirror stores the active path under
// "<prefix>state:<root>" and announces changes on the same channel name.
package redis
