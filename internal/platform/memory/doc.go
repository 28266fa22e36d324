// Package memory provides in-memory implementations of the store
// interfaces. They back the test suite and double as the embedded
// record-store variant for single-process deployments.
package memory
