// Package ports declares what the application core needs from the outside world: order and
// worker storage, the transaction boundary, the order change feed, worker notifications and
// workflow metrics.
package ports
