// Package repository defines the data access interfaces for skysight.
//
// This package provides the repository abstraction layer for persisting
// and retrieving domain entities. The actual implementation is in the
// sqlite subpackage.
//
// # Repository Interface
//
// The Repository interface defines all data access methods for cameras,
// strategies, and coverage reports. Lookups for missing entities return
// (nil, nil) so callers can distinguish "not found" from failure.
//
// # SQLite Implementation
//
// The sqlite implementation provides a complete repository using SQLite
// with WAL mode for concurrency. It handles:
//
// - CRUD operations for all entity types
// - JSON serialization of footprints, slew lists and coverage maps
// - Foreign key constraints and cascade deletes
// - Schema creation on startup
//
// # Testing
//
// The sqlite repository is tested with in-memory databases to ensure
// data integrity and proper handling of edge cases.
package repository
