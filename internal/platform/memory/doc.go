// Package memory implements the store interfaces in process memory. It backs
// the memory database driver and the service and API tests.
package memory
