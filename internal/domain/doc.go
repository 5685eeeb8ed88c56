// Package domain contains the task tracker's entities and value objects:
// users, tasks, tombstones of deleted tasks, and report subscriptions.
// It has no knowledge of storage or transport.
package domain
