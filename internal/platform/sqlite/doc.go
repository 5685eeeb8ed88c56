// Package sqlite implements the store interfaces with GORM on SQLite. It is
// meant for single-node deployments and local development; the schema is
// created with AutoMigrate.
package sqlite
