// Package store defines the persistence interfaces for the planning
// entities and shared persistence helpers. Implementations live under
// internal/platform; any store satisfying these interfaces (in-memory map,
// embedded database, remote API) is interchangeable.
package store
