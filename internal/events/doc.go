// Package events carries task lifecycle notifications from the services to
// interested handlers.
//
// Services emit a TaskEvent after a change has been committed. The emitter
// fans the event out to every registered EventHandler; the NATS publisher in
// internal/platform/natsbus is one such handler.
package events
