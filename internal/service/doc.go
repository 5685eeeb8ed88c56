// Package service implements the application use cases on top of the store
// interfaces: the task lifecycle (create, list, get, update, delete, batch
// delete, restore), accounts and report subscriptions.
//
// Multi-step mutations run inside store.Store.RunInTx so they commit or roll
// back as one unit. Lifecycle events are emitted only after a commit.
package service
