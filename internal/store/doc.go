// Package store defines the persistence ports used by the service layer:
// per-entity store interfaces, the Store unit of work that groups them, and
// the sentinel errors every adapter maps its failures onto.
package store
