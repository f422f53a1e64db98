// Package notify delivers workflow outcomes to the worker who triggered them.
//
// LogSink writes every notification to the structured log. RedisSink publishes it as JSON
// on the worker's own pub/sub channel, "<prefix>:<worker id>", behind a circuit breaker so
// an unreachable redis never slows down a command. Fanout combines sinks.
//
// Delivery is best effort everywhere: the command has already committed when a sink runs.
package notify
